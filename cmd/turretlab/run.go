package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/turretlab/internal/analysis"
	"github.com/san-kum/turretlab/internal/config"
	"github.com/san-kum/turretlab/internal/dynamo"
	"github.com/san-kum/turretlab/internal/experiment"
	"github.com/san-kum/turretlab/internal/export"
	"github.com/san-kum/turretlab/internal/log"
	"github.com/san-kum/turretlab/internal/physics"
	"github.com/san-kum/turretlab/internal/storage"
	"github.com/san-kum/turretlab/internal/turret"
)

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.WithLogger(log.With("scenario", cfg.Scenario)))
	if err != nil {
		return err
	}

	fmt.Printf("running %s/%s...\n", cfg.Scenario, presetName(args))
	start := time.Now()
	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		log.Warn("run stopped early", "err", e)
	}

	runID, err := st.Save(storage.RunMetadata{
		Scenario:   cfg.Scenario,
		Preset:     presetName(args),
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Controller: cfg.Controller,
		Gain:       cfg.Gain,
		GearRatio:  cfg.Turret.GearRatio,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, result.Metrics)
	return nil
}

func printMetrics(w io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, m[name])
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	points, err := experiment.SweepGain(cmd.Context(), cfg, gains, workers, experiment.WithLogger(log.With("cmd", "sweep")))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GAIN\tRMS ERR\tVISIBLE\tWRAPS\tPEAK\tLIMIT")
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.2f°\t%.0f%%\t%.0f\t%.1f°\t%.2f\n",
			p.Gain,
			p.Metrics["tracking_rms_deg"],
			p.Metrics["visibility"]*100,
			p.Metrics["wraps"],
			p.Metrics["peak_turret_deg"],
			p.Metrics["limit_safety"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if best, ok := experiment.Best(points, "tracking_rms_deg"); ok {
		fmt.Printf("\nlowest tracking error at gain %.4f\n", best.Gain)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tINTEG\tCTRL\tGAIN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s/%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%.4f\n",
			run.ID[:8],
			run.Scenario,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
			run.Gain,
		)
	}
	return w.Flush()
}

func loadRun(id string) (*storage.RunMetadata, *dynamo.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	result, err := st.LoadResult(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(result.States) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", meta.ID)
	}
	return meta, result, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s/%s\n", meta.Scenario, meta.Preset)
	fmt.Printf("samples: %d\n\n", len(result.States))

	series := []struct {
		caption string
		data    []float64
	}{
		{"turret angle (deg)", analysis.TurretDegrees(result, meta.GearRatio)},
		{"chassis yaw (deg)", result.Series(physics.Yaw)},
		{"turret output", result.ControlSeries(physics.TurretOut)},
		{"turn output", result.ControlSeries(physics.TurnOut)},
	}
	for _, s := range series {
		if len(s.data) < 2 {
			continue
		}
		fmt.Println(asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, meta)
}

func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).CopySamples(args[0], w); err != nil {
		closeFn()
		return err
	}
	if outFile != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, *meta, result); err != nil {
		closeFn()
		return err
	}
	if outFile != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	var svg string
	if showPhase {
		svg = export.Phase(result, meta.GearRatio, 800, 600)
	} else {
		trigger := turret.DefaultConfig().WrapTrigger
		svg = export.TurretTrace(result, meta.GearRatio, 1000, 400, trigger, -trigger)
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, svg); err != nil {
		closeFn()
		return err
	}
	if outFile != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	}
	return closeFn()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	rep := analysis.Analyze(result, meta.GearRatio)
	fmt.Printf("run: %s (%s/%s, gain %.4f)\n\n", meta.ID, meta.Scenario, meta.Preset, meta.Gain)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXIS\tFINAL\tPEAK\tTRAVEL\tREVERSALS\tHUNT HZ")
	fmt.Fprintf(w, "turret\t%.1f°\t%.1f°\t%.0f°\t%d\t%.2f\n",
		rep.TurretFinal, rep.TurretPeak, rep.TurretTravel, rep.TurretReversals, rep.TurretHuntHz)
	fmt.Fprintf(w, "chassis\t%.1f°\t\t\t%d\t%.2f\n",
		rep.YawFinal, rep.YawReversals, rep.YawHuntHz)
	if err := w.Flush(); err != nil {
		return err
	}

	if rep.Hunting() {
		fmt.Println("\nturret is hunting; try a lower gain")
	} else {
		fmt.Println("\nno hunting detected")
	}

	if showPhase {
		fmt.Println()
		fmt.Println(analysis.TurretPhase(result, meta.GearRatio).ToASCII(70, 20))
	}
	return nil
}
