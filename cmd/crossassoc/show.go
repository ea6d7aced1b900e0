package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TrevorS/crossassoc/internal/dataset"
	"github.com/TrevorS/crossassoc/internal/render"
)

func newShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <dir>",
		Short: "Print the shape of a dataset and a 2D slice of it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, o, args[0])
		},
	}
}

func runShow(cmd *cobra.Command, o *options, dir string) error {
	cfg, err := o.resolve(cmd)
	if err != nil {
		return err
	}
	ds, err := dataset.Load(cmd.Context(), dir)
	if err != nil {
		return err
	}
	t := ds.Tensor
	stdout := cmd.OutOrStdout()

	fmt.Fprintf(stdout, "modes  %v\n", ds.Header.Modes)
	fmt.Fprintf(stdout, "axes   %v (modes %v)\n", t.Dims(), ds.Header.AxisModes)
	fmt.Fprintf(stdout, "values %d\n", t.Values())
	for axis, labels := range ds.Labels {
		fmt.Fprintf(stdout, "axis %d: %d labels, first %q\n", axis, len(labels), labels[0])
	}

	plane, err := o.planeFor(cfg, t.Ways())
	if err != nil || plane == nil {
		return err
	}
	fmt.Fprintln(stdout)
	return render.Slice(stdout, t, plane)
}
