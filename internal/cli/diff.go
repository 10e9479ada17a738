package cli

import (
	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/depgraph"
	"github.com/depscope/depscope/pkg/io"
)

// diffCommand creates the diff command. The exit status follows shell diff
// conventions: 0 when the graphs are structurally equal, 1 when they differ.
func (c *CLI) diffCommand() *cobra.Command {
	var ignoreRoot bool

	cmd := &cobra.Command{
		Use:   "diff <a.json> <b.json>",
		Short: "Compare two graph documents for structural equality",
		Long: `Diff performs a deep structural comparison of two dependency graphs:
package identities, per-occurrence info, and dependency structure must all
match. Node ids may differ between the documents; comparison pairs children
by package identity, not by id. With --ignore-root the two root packages
themselves may differ as long as their dependency closures match.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}
			b, err := io.ImportJSON(args[1])
			if err != nil {
				return err
			}

			if a.Equals(b, depgraph.EqualOptions{IgnoreRoot: ignoreRoot}) {
				printSuccess("graphs are structurally equal")
				return nil
			}
			printError("graphs differ")
			cmd.SilenceErrors = true
			return errGraphsDiffer
		},
	}

	cmd.Flags().BoolVar(&ignoreRoot, "ignore-root", false, "ignore the root package pair itself")
	return cmd
}

// errGraphsDiffer signals a non-zero exit without an extra error message.
var errGraphsDiffer = &exitError{code: 1}

// exitError carries an exit code through cobra without printing.
type exitError struct{ code int }

func (e *exitError) Error() string { return "graphs differ" }

// ExitCode returns the process exit code for the error.
func (e *exitError) ExitCode() int { return e.code }
