package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/depgraph"
	"github.com/depscope/depscope/pkg/io"
)

// pathsCommand creates the paths command.
func (c *CLI) pathsCommand() *cobra.Command {
	var countOnly bool
	var limit int

	cmd := &cobra.Command{
		Use:   "paths <graph.json> <pkg[@version]>",
		Short: "Enumerate or count the paths from a package to the root",
		Long: `Paths walks parent edges upward from every occurrence of the package and
lists each distinct route to the project root, shortest first. With
--count-only the number of paths is computed without materializing them,
which stays cheap even when diamond dependencies make the enumeration
combinatorial.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := c.Logger
			g, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}
			pkg := depgraph.ParsePackage(args[1])

			count, err := g.CountPathsToRoot(pkg)
			if err != nil {
				return err
			}

			if countOnly {
				fmt.Println(count)
				return nil
			}

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("enumerating %d paths", count))
			spinner.Start()
			prog := newProgress(logger)
			paths, err := g.PathsToRoot(pkg)
			if err != nil {
				spinner.StopWithError(err.Error())
				return err
			}
			spinner.Stop()
			prog.done(fmt.Sprintf("Enumerated %d paths", len(paths)))

			shown := paths
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			for _, p := range shown {
				fmt.Println("  " + formatPath(p))
			}
			if len(shown) < len(paths) {
				printDetail("... and %d more (raise --limit to see them)", len(paths)-len(shown))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&countOnly, "count-only", false, "print only the number of paths")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum paths to print (0 = all)")
	return cmd
}

// formatPath renders a path as "pkg → parent → ... → root".
func formatPath(p depgraph.Path) string {
	parts := make([]string, len(p))
	for i, pkg := range p {
		parts[i] = pkg.String()
	}
	return strings.Join(parts, " "+StyleDim.Render(iconArrow)+" ")
}
