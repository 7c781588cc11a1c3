package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/turretlab/internal/experiment"
	"github.com/san-kum/turretlab/internal/log"
	"github.com/san-kum/turretlab/internal/telemetry"
	"github.com/san-kum/turretlab/internal/viz"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	// log lines would tear the terminal view
	if !cmd.Flags().Changed("log-level") {
		log.Init("error")
	}

	exp, err := experiment.New(cfg, experiment.WithLogger(log.With("scenario", cfg.Scenario)))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	title := fmt.Sprintf("%s/%s", cfg.Scenario, presetName(args))
	p := tea.NewProgram(viz.NewModel(exp.Robot(), cfg.Turret, title), tea.WithAltScreen())

	go func() {
		err := exp.RunRealtime(ctx, nil)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		p.Send(viz.DoneMsg{Err: err})
	}()

	_, err = p.Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("time") {
		cfg.Duration = 0
	}

	logger := log.With("cmd", "serve")
	exp, err := experiment.New(cfg, experiment.WithLogger(logger.With("scenario", cfg.Scenario)))
	if err != nil {
		return err
	}

	hub := telemetry.NewHub(logger)
	hub.OnCommand(exp.Robot().Enqueue)
	table := telemetry.NewTable()
	exp.Simulator().AddObserver(telemetry.NewPublisher(exp.Robot(), table, hub, publishN))

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		writeJSON(w, table.Snapshot())
	})
	mux.HandleFunc("/frame", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, exp.Robot().Frame())
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			stop()
		}
	}()
	logger.Info("serving telemetry", "addr", addr, "scenario", cfg.Scenario)

	runErr := exp.RunRealtime(ctx, nil)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", "err", err)
	}

	select {
	case err := <-errCh:
		return err
	default:
	}
	return runErr
}
