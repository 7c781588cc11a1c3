package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/turretlab/internal/config"
	"github.com/san-kum/turretlab/internal/experiment"
	"github.com/san-kum/turretlab/internal/log"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	saveConfig string
	preset     string
	dt         float64
	duration   float64
	seed       int64
	integrator string
	controller string
	gain       float64
	turretDeg  float64
	yaw        float64
	bearing    float64
	rate       float64
	noise      float64
	outFile    string
	showPhase  bool
	addr       string
	publishN   int
	gains      []float64
	workers    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "turretlab",
		Short: "turret wrap and auto-turn simulation lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(logLevel)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".turretlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	runCmd := &cobra.Command{
		Use:   "run [scenario[/preset]]",
		Short: "run a scenario and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config to this path")

	liveCmd := &cobra.Command{
		Use:   "live [scenario[/preset]]",
		Short: "run a scenario in real time with the terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve [scenario[/preset]]",
		Short: "run a scenario in real time and stream telemetry over websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	addScenarioFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&publishN, "every", 5, "publish every n ticks")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario[/preset]]",
		Short: "run a scenario once per tracking gain",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&gains, "gains", []float64{0.002, 0.004, 0.006, 0.008, 0.012}, "gains to try")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = one per CPU)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the turret angle trace as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().BoolVar(&showPhase, "phase", false, "export the phase portrait instead")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "reversal and frequency analysis of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().BoolVar(&showPhase, "phase", false, "also draw the turret phase portrait")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list presets of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list scenarios, integrators and controllers",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			fmt.Println("scenarios:")
			for _, s := range reg.ListScenarios() {
				fmt.Printf("  %-10s %s\n", s, reg.Describe(s))
			}
			fmt.Printf("integrators: %s\n", strings.Join(reg.ListIntegrators(), ", "))
			fmt.Printf("controllers: %s\n", strings.Join(reg.ListControllers(), ", "))
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, sweepCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, analyzeCmd, presetsCmd, scenariosCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml), replaces the preset")
	f.StringVar(&preset, "preset", "", "preset of the scenario")
	f.Float64Var(&dt, "dt", config.DefaultDt, "tick period in seconds")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	f.Int64Var(&seed, "seed", 0, "camera noise seed")
	f.StringVar(&integrator, "integrator", "rk4", "integrator")
	f.StringVar(&controller, "controller", "robot", "controller")
	f.Float64Var(&gain, "gain", config.DefaultGain, "tracking gain, percent output per degree")
	f.Float64Var(&turretDeg, "turret", 0, "initial turret angle, degrees")
	f.Float64Var(&yaw, "yaw", 0, "initial chassis heading, degrees")
	f.Float64Var(&bearing, "bearing", 0, "target bearing, degrees")
	f.Float64Var(&rate, "rate", 0, "target bearing rate, degrees per second")
	f.Float64Var(&noise, "noise", 0, "vision noise, degrees")
}

// resolveConfig starts from the preset, or the config file when given,
// and applies only the flags that were set explicitly.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	scenario, p := "track", preset
	if len(args) > 0 {
		scenario = args[0]
		if name, sub, ok := strings.Cut(args[0], "/"); ok {
			scenario, p = name, sub
		}
	}

	cfg, err := experiment.NewRegistry().Scenario(scenario, p)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, config.Scenarios())
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	f := cmd.Flags()
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("time") {
		cfg.Duration = duration
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if f.Changed("controller") {
		cfg.Controller = controller
	}
	if f.Changed("gain") {
		cfg.Gain = gain
	}
	if f.Changed("turret") {
		cfg.InitState.TurretDeg = turretDeg
	}
	if f.Changed("yaw") {
		cfg.InitState.Yaw = yaw
	}
	if f.Changed("bearing") {
		cfg.Target.Bearing = bearing
	}
	if f.Changed("rate") {
		cfg.Target.Rate = rate
	}
	if f.Changed("noise") {
		cfg.Target.Noise = noise
	}
	return cfg, cfg.Validate()
}

func presetName(args []string) string {
	if len(args) > 0 {
		if _, sub, ok := strings.Cut(args[0], "/"); ok {
			return sub
		}
	}
	if preset != "" {
		return preset
	}
	return "default"
}
