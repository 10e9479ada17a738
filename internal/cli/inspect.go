package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/io"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var showNodes bool

	cmd := &cobra.Command{
		Use:   "inspect <graph.json>",
		Short: "Show the packages and structure of a graph document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}

			root := g.RootPackage()
			fmt.Println(StyleTitle.Render(root.Pkg.String()))
			printStats(len(g.AllPackages()), g.NodeCount(), g.EdgeCount())
			if g.PkgManager() != "" {
				printKeyValue("manager", g.PkgManager())
			}
			if g.HasCycles() {
				printWarning("graph contains cycles; path queries are unavailable")
			}
			printNewline()

			for _, info := range g.DependencyPackages() {
				occ, err := g.OccurrencesOf(info.Pkg)
				if err != nil {
					return err
				}
				line := StyleValue.Render(info.Pkg.String())
				if len(occ) > 1 {
					line += StyleDim.Render(fmt.Sprintf(" ×%d", len(occ)))
				}
				fmt.Println("  " + line)
				if showNodes {
					for _, o := range occ {
						printDetail("node %s", o.Node.ID)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showNodes, "nodes", false, "list node occurrences per package")
	return cmd
}
