package cli

import (
	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/io"
	"github.com/depscope/depscope/pkg/transform"
)

// pruneCommand creates the prune command.
func (c *CLI) pruneCommand() *cobra.Command {
	var output string
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "prune <graph.json>",
		Short: "Reduce a graph to bound path enumeration blow-up",
		Long: `Prune applies transitive reduction (removing edges already implied by
longer paths) and optionally cuts the graph at a depth bound from the root.
The result preserves every query the engine offers, with fewer redundant
paths.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}

			before := g.EdgeCount()
			pruned, err := transform.TransitiveReduction(g)
			if err != nil {
				return err
			}
			if maxDepth > 0 {
				pruned, err = transform.LimitDepth(pruned, maxDepth)
				if err != nil {
					return err
				}
			}

			if err := io.ExportJSON(pruned, output); err != nil {
				return err
			}
			printSuccess("Pruned %d edges, %d nodes dropped",
				before-pruned.EdgeCount(), g.NodeCount()-pruned.NodeCount())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "pruned.json", "output file")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "drop nodes deeper than this (0 = no depth limit)")
	return cmd
}

// convertCommand creates the convert command for legacy documents.
func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <legacy.json>",
		Short: "Migrate a legacy flat graph file to the current document format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if err := io.ExportJSON(g, output); err != nil {
				return err
			}
			printSuccess("Converted %s", args[0])
			printStats(len(g.AllPackages()), g.NodeCount(), g.EdgeCount())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "graph.json", "output file")
	return cmd
}
