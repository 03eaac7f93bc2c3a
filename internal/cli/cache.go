package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pokeviz/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached layouts and rendered outputs",
	}

	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the cache backend and its usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := c.openCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cc.Close()

			cfg := c.config.cacheConfig()
			switch fc := cc.(type) {
			case *cache.FileCache:
				u, err := fc.Usage()
				if err != nil {
					return fmt.Errorf("inspect cache: %w", err)
				}
				printKeyValue("Backend", cache.BackendFile)
				printKeyValue("Directory", fc.Dir())
				printKeyValue("Entries", fmt.Sprintf("%d (%d expired)", u.Entries, u.Expired))
				printKeyValue("Size", humanize.Bytes(uint64(u.Bytes)))
			case *cache.RedisCache:
				printKeyValue("Backend", cache.BackendRedis)
				printKeyValue("URL", cfg.RedisURL)
				printKeyValue("Prefix", cfg.Prefix)
			default:
				printKeyValue("Backend", cache.BackendNone)
			}
			if ttl := c.config.Cache.TTL.Duration; ttl > 0 {
				printKeyValue("TTL", ttl.String())
			}
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := c.openCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cc.Close()

			var n int
			switch bc := cc.(type) {
			case *cache.FileCache:
				n, err = bc.Clear()
				printDetail("Directory: %s", bc.Dir())
			case *cache.RedisCache:
				n, err = bc.Clear(cmd.Context())
			default:
				printInfo("Caching is disabled; nothing to clear")
				return nil
			}
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %s cached %s", humanize.Comma(int64(n)), plural(n, "entry", "entries"))
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired entries from the file cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := c.openCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cc.Close()

			fc, ok := cc.(*cache.FileCache)
			if !ok {
				printInfo("Only the file backend needs pruning; redis expires keys itself")
				return nil
			}
			n, err := fc.Prune()
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			printSuccess("Pruned %d expired %s", n, plural(n, "entry", "entries"))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, c.config.cacheConfig().Dir)
			return nil
		},
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
