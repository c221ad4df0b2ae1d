package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rexzheng324-c/pharos/pkg/dataset"
)

func newInspectCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load the dataset manifest and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), cfg.Dataset.Manifest, ds)
		},
	}
	opts.bind(cmd.Flags())
	return cmd
}

func printSummary(w io.Writer, manifest string, ds *dataset.Dataset) error {
	fmt.Fprintf(w, "manifest: %s\nmode:     %s\nsegments: %d\n\n", manifest, ds.Mode(), ds.Len())

	unit := "items"
	if ds.Mode() == dataset.Fusion {
		unit = "frames"
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "SEGMENT\t%s\tDESCRIPTION\n", unit)
	for _, seg := range ds.Segments() {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", seg.Name(), seg.Len(), seg.Description())
	}
	return tw.Flush()
}
