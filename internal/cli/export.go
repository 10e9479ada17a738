package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/io"
	"github.com/depscope/depscope/pkg/render"
)

// exportCommand creates the export command for DOT/SVG/PNG output.
func (c *CLI) exportCommand() *cobra.Command {
	var output string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "export <graph.json>",
		Short: "Render a graph as a DOT, SVG, or PNG node-link diagram",
		Long: `Export renders the dependency graph as a node-link diagram. The output
format is inferred from the output file extension: .dot writes Graphviz
source, .svg and .png render through Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}

			dot := render.ToDOT(g, render.Options{Detailed: detailed})

			var data []byte
			switch ext := strings.ToLower(filepath.Ext(output)); ext {
			case ".dot", ".gv":
				data = []byte(dot)
			case ".svg":
				spinner := newSpinnerWithContext(cmd.Context(), "rendering SVG")
				spinner.Start()
				data, err = render.RenderSVG(cmd.Context(), dot)
				spinner.Stop()
			case ".png":
				spinner := newSpinnerWithContext(cmd.Context(), "rendering PNG")
				spinner.Start()
				data, err = render.RenderPNG(cmd.Context(), dot)
				spinner.Stop()
			default:
				return fmt.Errorf("unsupported output extension %q (want .dot, .svg, or .png)", ext)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Rendered %s", args[0])
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "graph.svg", "output file (.dot, .svg, .png)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node ids in labels")
	return cmd
}
