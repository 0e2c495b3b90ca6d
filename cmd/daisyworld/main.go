package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/daisyworld/internal/analysis"
	"github.com/san-kum/daisyworld/internal/automation"
	"github.com/san-kum/daisyworld/internal/config"
	"github.com/san-kum/daisyworld/internal/dynamo"
	"github.com/san-kum/daisyworld/internal/experiment"
	"github.com/san-kum/daisyworld/internal/export"
	"github.com/san-kum/daisyworld/internal/narrative"
	"github.com/san-kum/daisyworld/internal/optim"
	"github.com/san-kum/daisyworld/internal/storage"
	"github.com/san-kum/daisyworld/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir   string
	logLevel  string
	logFormat string
	themeName string

	configFile string
	preset     string
	overrides  []string
	maxTicks   int
	noStop     bool
	save       bool
	label      string
	narrate    bool
	plot       bool
	surface    bool
	formulas   bool

	sweepParams []string
	workers     int
	dbPath      string
	metric      string
	maximize    bool

	lumMin    float64
	lumMax    float64
	scanSteps int
	window    int

	trials  int
	perturb float64
	keys    []string
	seed    int64

	saveConfig string
	outFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "daisyworld",
		Short:         "daisyworld climate regulation simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logLevel, logFormat)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".daisyworld", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "meadow", "report theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation to its end",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "save the run")
	runCmd.Flags().StringVar(&label, "label", "", "label for the saved run")
	runCmd.Flags().BoolVar(&narrate, "narrate", false, "write a field report")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the history")
	runCmd.Flags().BoolVar(&surface, "surface", false, "draw the final surface")
	runCmd.Flags().BoolVar(&formulas, "formulas", false, "show the model relations")

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "show the editable settings",
		Args:  cobra.NoArgs,
		RunE:  showSettings,
	}
	settingsCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	settingsCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	settingsCmd.Flags().StringArrayVar(&overrides, "set", nil, "override a setting (key=value)")
	settingsCmd.Flags().StringVar(&saveConfig, "save", "", "write the resulting config to a yaml file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name).World
				fmt.Printf("  %-14s L=%.2f->%.2f rate=%.4f death=%.2f heating=%.0f window=%d\n",
					name, p.LuminosityInitial, p.LuminosityMax, p.LuminosityRate, p.DeathRate, p.HeatingFactor, p.StabilityWindow)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	reportCmd := &cobra.Command{
		Use:   "report [run_id]",
		Short: "show the end-of-run report of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  reportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run history to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the history graph as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a parameter grid",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "swept setting (key=min:max:steps or key=v1,v2)")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = unlimited)")
	sweepCmd.Flags().StringVar(&dbPath, "db", "", "sqlite index path (default <data>/index.db)")
	sweepCmd.Flags().StringVar(&metric, "metric", "homeostasis", "metric used to pick the best cell")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", true, "maximize the metric")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "settle the world under a range of constant suns",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
	addConfigFlags(scanCmd)
	scanCmd.Flags().Float64Var(&lumMin, "min", 0.6, "lowest luminosity")
	scanCmd.Flags().Float64Var(&lumMax, "max", 1.4, "highest luminosity")
	scanCmd.Flags().IntVar(&scanSteps, "steps", 17, "number of luminosities")
	scanCmd.Flags().IntVar(&window, "window", 0, "stability window for each run (0 keeps the configured window)")
	scanCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")
	scanCmd.Flags().BoolVar(&plot, "plot", false, "plot settled and bare temperatures")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run jittered copies of a configuration",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addConfigFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.05, "maximum absolute jitter per setting")
	monteCarloCmd.Flags().StringSliceVar(&keys, "keys", []string{"albedo_white", "albedo_black", "death_rate"}, "settings to jitter")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the engine",
		Args:  cobra.NoArgs,
		RunE:  benchEngine,
	}

	rootCmd.AddCommand(runCmd, settingsCmd, presetsCmd, listCmd, plotCmd, reportCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, sweepCmd, scanCmd, scenarioCmd, monteCarloCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a setting (key=value)")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", config.DefaultMaxTicks, "tick limit")
	cmd.Flags().BoolVar(&noStop, "no-stop", false, "keep stepping after an end reason")
}

// loadConfig resolves preset, config file, --set overrides and flags, in
// that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := config.ApplyOverrides(&cfg.World, overrides); err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("max-ticks"); f != nil && f.Changed {
		cfg.Run.MaxTicks = maxTicks
	}
	if noStop {
		cfg.Run.StopOnEnd = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	registry := experiment.NewRegistry()
	exp := experiment.New(experiment.Config{
		Params:    cfg.World,
		MaxTicks:  cfg.Run.MaxTicks,
		StopOnEnd: cfg.Run.StopOnEnd,
	}).WithLogger(slog.Default().With("cmd", "run"))
	if err := exp.Setup(registry.DefaultMetrics()); err != nil {
		return err
	}

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	// the report is fire-and-forget; print the rest while it is written
	var pending *narrative.Pending
	if narrate {
		pending = narrative.Request(ctx, narrative.OfflineFor(result.Summary), result.Summary, narrative.DefaultTimeout)
	}

	theme := viz.GetTheme(themeName)
	styles := viz.NewStyles(theme)
	fmt.Println(viz.RenderReport(result.Summary, theme))

	temps := exp.World().History().Series(func(s dynamo.Snapshot) float64 { return s.Temperature })
	fmt.Printf("%s %s\n", styles.Highlight.Render("temperature trend"), viz.Sparkline(temps, 60))
	fmt.Println(viz.Separator(styles, 60))

	fmt.Println("metrics:")
	for _, name := range registry.ListMetrics() {
		fmt.Printf("  %-20s %.4f\n", name, result.Metrics[name])
	}
	fmt.Printf("  %-20s %v\n", "elapsed", result.Elapsed)

	if surface {
		s := viz.NewSurface(60, 15, 1)
		s.Fill(result.Summary.White, result.Summary.Black)
		fmt.Println()
		fmt.Print(s.Render(styles))
	}

	if formulas {
		fmt.Println()
		fmt.Println(viz.RenderFormulas(theme))
	}

	if plot {
		fmt.Println()
		fmt.Print(viz.PlotHistory(result.History, viz.DefaultPlotOptions()))
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(label, result)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved run: %s\n", runID)
	}

	if pending != nil {
		fmt.Println()
		fmt.Println("field report:")
		text, _ := pending.Wait(ctx)
		fmt.Println(text)
	}

	return nil
}

func showSettings(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tMIN\tMAX\tSTEP\tDESCRIPTION")
	for _, f := range config.Fields() {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%s\n", f.Key, f.Format(&cfg.World), f.Min, f.Max, f.Step, f.Desc)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", saveConfig)
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
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tTICKS\tTEMP\tOUTCOME")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%s\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Summary.Tick,
			run.Summary.Temperature,
			run.Outcome(),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("outcome: %s\n", meta.Outcome())
	fmt.Printf("samples: %d\n\n", len(history))
	fmt.Print(viz.PlotHistory(history, viz.DefaultPlotOptions()))
	return nil
}

func reportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	fmt.Println(viz.RenderReport(meta.Summary, viz.GetTheme(themeName)))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	history, err := storage.New(dataDir).LoadHistory(args[0])
	if err != nil {
		return err
	}

	svg := export.HistoryToSVG(history, 750, 340)
	if svg == "" {
		return fmt.Errorf("no data to export")
	}

	if outFile == "" {
		_, err := fmt.Fprintln(os.Stdout, svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	axes := make([]optim.Axis, 0, len(sweepParams))
	for _, spec := range sweepParams {
		a, err := optim.ParseAxis(spec)
		if err != nil {
			return err
		}
		axes = append(axes, a)
	}

	gs, err := optim.NewGridSearch(axes, workers)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	slog.Info("sweep_start", "cells", gs.Size(), "workers", workers)
	start := time.Now()
	points, err := gs.Run(ctx, cfg.World, cfg.Run.MaxTicks)
	if err != nil {
		return err
	}
	slog.Info("sweep_end", "elapsed", time.Since(start))

	if dbPath == "" {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}
		dbPath = filepath.Join(dataDir, "index.db")
	}
	idx := storage.NewIndex(dbPath)
	if err := idx.Init(ctx); err != nil {
		return err
	}
	defer idx.Close()

	batch := uuid.NewString()
	for i, p := range points {
		rec := storage.RecordFromSummary(fmt.Sprintf("%s-%d", batch, i), batch, formatValues(axes, p.Values), p.Params, p.Summary)
		if err := idx.Record(ctx, rec); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CELL\tTICKS\tTEMP\tOUTCOME\t%s\n", strings.ToUpper(metric))
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%s\t%.4f\n", formatValues(axes, p.Values), p.Ticks, p.Summary.Temperature, p.Outcome, p.Metrics[metric])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	counts, err := idx.CountByOutcome(ctx, batch)
	if err != nil {
		return err
	}
	fmt.Printf("\nbatch %s (%s)\n", batch, dbPath)
	for _, r := range []dynamo.EndReason{dynamo.Stable, dynamo.HeatDeath, dynamo.FreezeDeath, dynamo.FailureToLaunch, dynamo.Extinct, dynamo.Running} {
		if n := counts[r]; n > 0 {
			fmt.Printf("  %-18s %d\n", r, n)
		}
	}

	if best, ok := optim.Best(points, metric, maximize); ok {
		fmt.Printf("\nbest %s: %s (%.4f)\n", metric, formatValues(axes, best.Values), best.Metrics[metric])
	}
	return nil
}

func formatValues(axes []optim.Axis, values map[string]float64) string {
	parts := make([]string, len(axes))
	for i, a := range axes {
		parts[i] = fmt.Sprintf("%s=%g", a.Key, values[a.Key])
	}
	return strings.Join(parts, " ")
}

// scanParams keeps the configured stability window unless a positive
// override is given.
func scanParams(p dynamo.Params, window int) dynamo.Params {
	if window > 0 {
		p.StabilityWindow = window
	}
	return p
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base := scanParams(cfg.World, window)

	ctx, cancel := signalContext()
	defer cancel()

	points, err := analysis.EquilibriumScan(ctx, base, lumMin, lumMax, scanSteps, cfg.Run.MaxTicks, workers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LUMINOSITY\tTEMP\tBARE\tWHITE%\tBLACK%\tTICKS\tOUTCOME")
	for _, p := range points {
		fmt.Fprintf(w, "%.3f\t%.2f\t%.2f\t%.2f\t%.2f\t%d\t%s\n",
			p.Luminosity, p.Temperature, p.BareTemp, p.White*100, p.Black*100, p.Ticks, p.Outcome)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if lo, hi, ok := analysis.RegulationBand(points); ok {
		fmt.Printf("\nregulated between L=%.3f and L=%.3f\n", lo, hi)
	} else {
		fmt.Println("\nno regulated equilibrium found")
	}

	if plot {
		settled := make([]float64, len(points))
		bare := make([]float64, len(points))
		for i, p := range points {
			settled[i] = p.Temperature
			bare[i] = p.BareTemp
		}
		opts := viz.DefaultPlotOptions()
		fmt.Println()
		fmt.Print(viz.PlotSeries(settled, "settled temperature vs luminosity", opts))
		fmt.Println()
		fmt.Print(viz.PlotSeries(bare, "bare planet temperature vs luminosity", opts))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), st)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTICKS\tTEMP\tOUTCOME\tRUN")
	for i, r := range results {
		name := r.Step.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%s\t%s\n", name, r.Result.Summary.Tick, r.Result.Summary.Temperature, r.Result.Outcome(), r.RunID)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         cfg.World,
		Keys:         keys,
		Perturbation: perturb,
		NumTrials:    trials,
		MaxTicks:     cfg.Run.MaxTicks,
		Seed:         seed,
	})
	if err != nil {
		return err
	}

	counts := automation.MonteCarloStats(results)
	fmt.Printf("%d trials, jitter %.3f on %s\n\n", len(results), perturb, strings.Join(keys, ", "))
	for _, r := range []dynamo.EndReason{dynamo.Stable, dynamo.HeatDeath, dynamo.FreezeDeath, dynamo.FailureToLaunch, dynamo.Extinct, dynamo.Running} {
		n := counts[r]
		if n == 0 {
			continue
		}
		share := float64(n) / float64(len(results))
		fmt.Printf("  %-18s %4d  %s\n", r, n, viz.ProgressBar(viz.NewStyles(viz.GetTheme(themeName)).Value, share, 30))
	}
	return nil
}

func benchEngine(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICKS\tHISTORY\tTIME\tTICKS/SEC")

	for _, ticks := range []int{1000, 10000, 100000} {
		for _, limit := range []int{0, 1} {
			p := dynamo.DefaultParams()
			p.HistoryLimit = limit
			world := dynamo.NewWorld(p)

			start := time.Now()
			for i := 0; i < ticks; i++ {
				world.Step()
			}
			elapsed := time.Since(start)

			history := "full"
			if limit > 0 {
				history = "capped"
			}
			fmt.Fprintf(w, "%d\t%s\t%v\t%.0f\n", ticks, history, elapsed, float64(ticks)/elapsed.Seconds())
		}
	}

	return w.Flush()
}
