package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/verletsim/internal/automation"
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/experiment"
	"github.com/san-kum/verletsim/internal/optim"
	"github.com/san-kum/verletsim/internal/storage"
)

// parseGrid turns "name=v1,v2,..." specs into parallel name and value lists.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("invalid param %q, want name=v1,v2", spec)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("param %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridSpecs)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(objective, cfg.SolverConfig()); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	g := optim.NewGridSearch(names, ranges)
	logger.Info("sweep started", "points", g.Size(), "metric", objective)
	best, bestVal, trials, err := g.Search(ctx, optim.ConfigBuilder(cfg, registry, []string{objective}), objective)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(objective))
	for _, tr := range trials {
		row := make([]string, 0, len(names)+1)
		for _, name := range names {
			row = append(row, strconv.FormatFloat(tr.Params[name], 'g', -1, 64))
		}
		if tr.Err != nil {
			row = append(row, "error: "+tr.Err.Error())
		} else {
			row = append(row, fmt.Sprintf("%.6f", tr.Value))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()

	if err != nil {
		return err
	}

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, best[k])
	}
	fmt.Printf("\nbest: %s (%s %.6f)\n", strings.Join(parts, " "), objective, bestVal)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	results, runErr := automation.RunScenario(ctx, sc, experiment.NewRegistry(), st, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tNAME\tFRAMES\tPARTICLES\tRUN")
	for i, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", i+1, r.Name, r.Result.FramesRun, len(r.Result.Final), id)
	}
	w.Flush()

	return runErr
}

func listParams(cmd *cobra.Command, args []string) error {
	defaults := config.DefaultConfig().GetParams()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tDEFAULT")
	for _, name := range config.ParamNames() {
		fmt.Fprintf(w, "%s\t%g\n", name, defaults[name])
	}
	return w.Flush()
}
