package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/TrevorS/crossassoc"
	"github.com/TrevorS/crossassoc/internal/dataset"
	"github.com/TrevorS/crossassoc/internal/output"
	"github.com/TrevorS/crossassoc/internal/render"
)

func newSearchCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <dir>",
		Short: "Search a dataset for a cross-association",
		Long: `Search loads <dir>, finds a low-cost multiclustering, prints it, and writes
the matrix, blocked matrix, block model, clusterings, block densities, a log
and a YAML summary to <out>/crossassoc/crossassoc_<timestamp>/.

Examples:
  crossassoc search data/trade
  crossassoc search --workers 4 --log-level debug data/trade
  crossassoc search --config run.yaml --out /tmp/runs data/trade`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, o, args[0])
		},
	}

	f := cmd.Flags()
	f.IntVarP(&o.workers, "workers", "w", 0, "Goroutines per reassignment pass (0 means NumCPU)")
	f.IntVar(&o.maxRounds, "max-rounds", 0, "Stop after this many growth rounds (0 means no limit)")
	f.IntVar(&o.maxRegroupRounds, "max-regroup-rounds", 0, "Cap reassignment rounds per regroup (0 means no limit)")
	f.IntSliceVar(&o.initialClusters, "initial-clusters", nil, "Round-robin clusters per axis to start from")
	f.StringVarP(&o.out, "out", "o", "", "Output root (default: the input directory)")
	return cmd
}

func runSearch(cmd *cobra.Command, o *options, dir string) error {
	cfg, err := o.resolve(cmd)
	if err != nil {
		return err
	}
	stdout := cmd.OutOrStdout()

	root := cfg.Output.Dir
	if root == "" {
		root = dir
	}
	run, err := output.NewRun(root, time.Now())
	if err != nil {
		return err
	}
	logFile, err := run.Create(output.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := newLogger(io.MultiWriter(cmd.ErrOrStderr(), logFile), cfg.Log)
	if err != nil {
		return err
	}
	logger = logger.With("run_id", run.ID.String())
	logger.Info("output directory", "dir", run.Dir)

	start := time.Now()
	ds, err := dataset.Load(cmd.Context(), dir)
	if err != nil {
		return err
	}
	t := ds.Tensor
	logger.Info("loaded data",
		"dims", t.Dims(),
		"values", t.Values(),
		"entries", t.Len(),
		"elapsed", time.Since(start),
	)

	plane, err := o.planeFor(cfg, t.Ways())
	if err != nil {
		return err
	}
	if plane != nil {
		if err := render.Slice(stdout, t, plane); err != nil {
			return err
		}
		fmt.Fprintln(stdout)
		if err := run.WriteFile(output.MatrixFile, func(w io.Writer) error {
			return render.Slice(w, t, plane)
		}); err != nil {
			return err
		}
	}

	start = time.Now()
	result, err := crossassoc.Search(t, cfg.Search.searchConfig(logger))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	logger.Info("search complete",
		"cost", result.Cost,
		"clusters", result.Clustering.BlockingDims(),
		"rounds", len(result.Rounds),
		"elapsed", elapsed,
	)

	if err := writeSolution(stdout, run, ds, result.Clustering, plane, logger); err != nil {
		return err
	}
	if err := run.WriteSummary(run.NewSummary(dir, result, elapsed)); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "cost = %.6f (model %.6f, data %.6f)\n", result.Cost, result.ModelCost, result.DataCost)
	fmt.Fprintf(stdout, "output %s\n", run.Dir)
	return nil
}

// writeSolution prints the clustered slice and block model and writes every
// solution file into the run directory. Views too large to draw are skipped
// with a warning.
func writeSolution(stdout io.Writer, run *output.Run, ds *dataset.Dataset, m *crossassoc.Multiclustering, plane []int, logger *slog.Logger) error {
	if plane != nil {
		if err := skipLarge(logger, "clustered slice", render.Clustered(stdout, m, plane)); err != nil {
			return err
		}
		fmt.Fprintln(stdout)
		if err := skipLarge(logger, "block model", render.Model(stdout, m, plane)); err != nil {
			return err
		}
		fmt.Fprintln(stdout)
		if err := skipLarge(logger, "block model", run.WriteFile(output.BlockModelFile, func(w io.Writer) error {
			return render.Model(w, m, plane)
		})); err != nil {
			return err
		}
		if err := run.WriteFile(output.BlockedMatrixFile, func(w io.Writer) error {
			return render.Blocked(w, m)
		}); err != nil {
			return err
		}
	}

	for axis := range m.Tensor().Ways() {
		if err := run.WriteFile(output.ClusteringFile(axis), func(w io.Writer) error {
			return render.Clusterings(w, m, axis, ds.Labels[axis])
		}); err != nil {
			return err
		}
	}
	return run.WriteFile(output.DensitiesFile, func(w io.Writer) error {
		return render.Densities(w, m)
	})
}

func skipLarge(logger *slog.Logger, view string, err error) error {
	if errors.Is(err, render.ErrTooLarge) {
		logger.Warn("view skipped", "view", view, "reason", err)
		return nil
	}
	return err
}
