package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ownergraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the HTTP response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached registry responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if c.cfg.Cache.Backend == cache.BackendNone {
				printInfo("Cache is disabled")
				return nil
			}

			backend, err := c.openCache(ctx, false)
			if err != nil {
				return err
			}
			defer backend.Close()

			clearer, ok := backend.(cache.Clearer)
			if !ok {
				printWarning("The %s cache cannot be cleared", c.cfg.Cache.Backend)
				return nil
			}
			count, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Backend: %s", cacheLocation(c.cfg.Cache.Backend, c.cfg.Cache.Dir))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached responses are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(cacheLocation(c.cfg.Cache.Backend, c.cfg.Cache.Dir))
			return nil
		},
	}
}

// cacheLocation describes a backend: the directory for the file cache,
// otherwise the backend name.
func cacheLocation(backend, dir string) string {
	if backend == cache.BackendFile || backend == "" {
		return dir
	}
	return backend
}
