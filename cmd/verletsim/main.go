package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/experiment"
	"github.com/san-kum/verletsim/internal/export"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/storage"
	"github.com/san-kum/verletsim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	presetName string
	configFile string
	duration   float64
	dt         float64
	seed       int64
	subSteps   int
	response   string
	broadphase string
	maxCount   int
	perFrame   int
	sampleN    int
	logEvery   int
	metricList []string
	noSave     bool
	burstSize  int
	metricName string
	outFile    string
	benchRuns  int
	benchTime  float64
	checkRuns  int
	gridSpecs  []string
	objective  string
	jobs       int
	counts     []int

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "verletsim",
	})
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "verletsim",
		Short: "verlet particle simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".verletsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", 0, "simulated seconds")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "frame time step")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "emitter seed")
	runCmd.Flags().IntVar(&subSteps, "substeps", 0, "sub-steps per frame")
	runCmd.Flags().StringVar(&response, "response", "", "collision response (momentum, damped)")
	runCmd.Flags().StringVar(&broadphase, "broadphase", "", "broad phase (hash, brute)")
	runCmd.Flags().IntVar(&maxCount, "max", 0, "particle limit")
	runCmd.Flags().IntVar(&perFrame, "rate", 0, "particles spawned per frame")
	runCmd.Flags().IntVar(&sampleN, "sample", 0, "record every Nth frame")
	runCmd.Flags().IntVar(&logEvery, "log-every", 0, "debug log every Nth frame")
	runCmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to compute (default all)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot frame series of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricName, "metric", "", "series to plot (default all)")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "draw the final particles of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&burstSize, "burst", viz.DefaultBurst, "particles added by the burst key")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare broad phases across particle counts",
		RunE:  runBench,
	}
	benchCmd.Flags().IntSliceVar(&counts, "counts", []int{250, 500, 1000, 2000}, "particle counts")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 1, "repetitions per configuration")
	benchCmd.Flags().Float64Var(&benchTime, "time", 2, "simulated seconds per run")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "verify determinism and containment of a preset",
		RunE:  runCheck,
	}
	addConfigFlags(checkCmd)
	checkCmd.Flags().IntVar(&checkRuns, "runs", 4, "ensemble size")
	checkCmd.Flags().IntVar(&jobs, "jobs", 0, "concurrent members (0 = unlimited)")
	checkCmd.Flags().Float64Var(&duration, "time", 0, "simulated seconds")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final particles or a metric series as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&metricName, "metric", "", "plot this series instead of the particles")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search solver parameters for the smallest metric",
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&gridSpecs, "param", nil, "parameter grid as name=v1,v2 (repeatable)")
	sweepCmd.Flags().StringVar(&objective, "metric", "overlap", "metric to minimize")
	sweepCmd.Flags().Float64Var(&duration, "time", 0, "simulated seconds per point")
	sweepCmd.MarkFlagRequired("param")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario of sequential runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "list parameters accepted by sweep and scenarios",
		RunE:  listParams,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, showCmd, liveCmd, benchCmd, checkCmd, sweepCmd, scenarioCmd, paramsCmd, presetsCmd, exportJSONCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&presetName, "preset", "p", "fountain", "preset name")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config applied over the preset")
}

// loadConfig layers preset, config file and explicit flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(presetName)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %s)", presetName, strings.Join(config.ListPresets(), ", "))
	}

	if configFile != "" {
		fileCfg, err := config.LoadWith(configFile, cfg)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Lookup("time") != nil && flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Lookup("dt") != nil && flags.Changed("dt") {
		cfg.Run.FrameDt = dt
	}
	if flags.Lookup("seed") != nil && flags.Changed("seed") {
		cfg.Spawn.Seed = seed
	}
	if flags.Lookup("substeps") != nil && flags.Changed("substeps") {
		cfg.Solver.SubSteps = subSteps
	}
	if flags.Lookup("response") != nil && flags.Changed("response") {
		cfg.Solver.Response = response
	}
	if flags.Lookup("broadphase") != nil && flags.Changed("broadphase") {
		cfg.Solver.Broadphase = broadphase
	}
	if flags.Lookup("max") != nil && flags.Changed("max") {
		cfg.Spawn.Max = maxCount
	}
	if flags.Lookup("rate") != nil && flags.Changed("rate") {
		cfg.Spawn.PerFrame = perFrame
	}
	if flags.Lookup("sample") != nil && flags.Changed("sample") {
		cfg.Run.SampleEvery = sampleN
	}
	if flags.Lookup("log-every") != nil && flags.Changed("log-every") {
		cfg.Run.LogEvery = logEvery
	}

	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), metricList, logger); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run stopped early", "frames", result.FramesRun, "err", runErr)
	}

	fmt.Printf("preset:    %s\n", cfg.Preset)
	fmt.Printf("frames:    %d\n", result.FramesRun)
	fmt.Printf("particles: %d\n", len(result.Final))
	fmt.Printf("elapsed:   %s\n", result.Elapsed.Round(time.Millisecond))
	printMetrics(result.Metrics)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(exp.Record(), result)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved: %s\n", runID)
	}

	return runErr
}

func printMetrics(values map[string]float64) {
	if len(values) == 0 {
		return
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %-16s %.6f\n", name, values[name])
	}
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
	fmt.Fprintln(w, "ID\tPRESET\tTIMESTAMP\tFRAMES\tPARTICLES\tELAPSED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Preset, r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Frames, r.Particles, r.Elapsed.Round(time.Millisecond))
	}
	return w.Flush()
}

// series extracts a named column from stored frames.
func series(frames []sim.Frame, name string) ([]float64, bool) {
	out := make([]float64, len(frames))
	for i, f := range frames {
		switch name {
		case "count":
			out[i] = float64(f.Count)
		case "contacts":
			out[i] = float64(f.Contacts)
		case "boundary_hits":
			out[i] = float64(f.BoundaryHits)
		default:
			v, ok := f.Metrics[name]
			if !ok {
				return nil, false
			}
			out[i] = v
		}
	}
	return out, true
}

func seriesNames(frames []sim.Frame) []string {
	names := []string{"count", "contacts", "boundary_hits"}
	if len(frames) == 0 {
		return names
	}
	metricNames := make([]string, 0, len(frames[0].Metrics))
	for name := range frames[0].Metrics {
		metricNames = append(metricNames, name)
	}
	sort.Strings(metricNames)
	return append(names, metricNames...)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("not enough frames to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n\n", meta.Preset)

	names := seriesNames(frames)
	if metricName != "" {
		names = []string{metricName}
	}

	for _, name := range names {
		data, ok := series(frames, name)
		if !ok {
			return fmt.Errorf("unknown series: %s", name)
		}
		caption := fmt.Sprintf("%s (t=%.2f..%.2f)", name, frames[0].Time, frames[len(frames)-1].Time)
		graph := asciigraph.Plot(data, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption(caption))
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	ps, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}

	canvas := viz.NewCanvas(80, 24)
	vp := viz.FitViewport(canvas, meta.Solver.Width, meta.Solver.Height)
	positions := make([]dynamo.Vec2, len(ps))
	for i, p := range ps {
		positions[i] = p.Position
	}
	canvas.DrawWorld(vp, positions, meta.Solver.Radius)

	fmt.Printf("run: %s  particles: %d  t=%.2fs\n", meta.ID, len(ps), meta.Duration)
	fmt.Println(canvas.String())
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), []string{"kinetic_energy"}, nil); err != nil {
		return err
	}

	m := viz.NewModel(exp.Runner(), cfg.Run.FrameDt, burstSize, "verletsim "+cfg.Preset)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRATE\tMAX\tRESPONSE\tBROADPHASE\tDURATION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d/frame\t%d\t%s\t%s\t%.0fs\n",
			name, p.Spawn.PerFrame, p.Spawn.Max, p.Solver.Response, p.Solver.Broadphase, p.Run.Duration)
	}
	return w.Flush()
}

func writeOutput(data []byte) error {
	if outFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		return err
	}
	logger.Info("exported", "file", outFile)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	ps, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}

	var b strings.Builder
	if err := export.WriteJSON(&b, export.NewExportData(meta, frames, ps)); err != nil {
		return err
	}
	return writeOutput([]byte(b.String()))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if metricName == "" {
		ps, err := st.LoadParticles(runID)
		if err != nil {
			return err
		}
		svg := export.ParticlesSVG(ps, meta.Solver.Width, meta.Solver.Height, meta.Solver.Radius)
		return writeOutput([]byte(svg))
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	values, ok := series(frames, metricName)
	if !ok {
		return fmt.Errorf("unknown series: %s", metricName)
	}
	times := make([]float64, len(frames))
	for i, f := range frames {
		times[i] = f.Time
	}
	return writeOutput([]byte(export.SeriesSVG(times, values, 800, 400, "#0088ff")))
}
