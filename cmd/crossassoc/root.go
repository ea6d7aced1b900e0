package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TrevorS/crossassoc/internal/render"
)

// options holds the raw flag values shared by the subcommands.
type options struct {
	configPath string
	logLevel   string
	logFormat  string

	workers          int
	maxRounds        int
	maxRegroupRounds int
	initialClusters  []int
	out              string
	plane            string
}

func newRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "crossassoc",
		Short: "Find cross-associations in N-way relational data",
		Long: `crossassoc co-clusters every axis of a small-alphabet N-way array so that
the block structure it induces has a short description length.

An input directory holds data.txt and an optional labels.txt, either of which
may be gzip (.gz) or zstd (.zst) compressed.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&o.logFormat, "log-format", "text", "Log format (text, json)")
	pf.StringVar(&o.plane, "plane", "", "2D slice to draw, e.g. -1,-1,0 (default: first two axes)")

	root.AddCommand(newSearchCmd(o), newShowCmd(o))
	return root
}

// resolve loads the configuration file and applies every flag the user set
// on top of it.
func (o *options) resolve(cmd *cobra.Command) (Config, error) {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if flags.Changed("workers") {
		cfg.Search.Workers = o.workers
	}
	if flags.Changed("max-rounds") {
		cfg.Search.MaxRounds = o.maxRounds
	}
	if flags.Changed("max-regroup-rounds") {
		cfg.Search.MaxRegroupRounds = o.maxRegroupRounds
	}
	if flags.Changed("initial-clusters") {
		cfg.Search.InitialClusters = o.initialClusters
	}
	if flags.Changed("out") {
		cfg.Output.Dir = o.out
	}
	return cfg, nil
}

// planeFor returns the plane to draw for a tensor with the given number of
// axes, or nil when the tensor has fewer than two. The --plane flag wins over
// the configuration file.
func (o *options) planeFor(cfg Config, ways int) ([]int, error) {
	if o.plane != "" {
		return render.ParsePlane(o.plane, ways)
	}
	if cfg.Output.Plane != nil {
		if len(cfg.Output.Plane) != ways {
			return nil, fmt.Errorf("%w: config plane has %d entries for %d axes", render.ErrPlane, len(cfg.Output.Plane), ways)
		}
		return cfg.Output.Plane, nil
	}
	if ways < 2 {
		return nil, nil
	}
	return render.DefaultPlane(ways), nil
}
