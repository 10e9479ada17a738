package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/depgraph"
	"github.com/depscope/depscope/pkg/io"
)

// whyCommand creates the why command.
func (c *CLI) whyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "why <graph.json> <pkg[@version]>",
		Short: "Show which direct dependencies pull a package in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}
			pkg := depgraph.ParsePackage(args[1])

			direct, err := g.DirectDependenciesLeadingTo(pkg)
			if err != nil {
				return err
			}
			if len(direct) == 0 {
				printInfo("%s is not reachable through any direct dependency", pkg)
				return nil
			}

			fmt.Println(StyleTitle.Render(pkg.String()) + StyleDim.Render(" is pulled in by:"))
			for _, occ := range direct {
				fmt.Println("  " + StyleValue.Render(occ.Pkg.Pkg.String()))
			}
			return nil
		},
	}
}
