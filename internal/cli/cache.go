package cli

import (
	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/cache"
)

// cacheCommand creates the cache command group for the local file cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local analysis cache",
	}
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheClearCommand())
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return err
			}
			printFile(dir)
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached analysis results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return err
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			defer fc.Close()

			if err := fc.Clear(); err != nil {
				return err
			}
			printSuccess("Cache cleared")
			printFile(dir)
			return nil
		},
	}
}
