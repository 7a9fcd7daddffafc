package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soliscan/soliscan/internal/cache"
	"github.com/soliscan/soliscan/internal/config"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persisted result cache",
	}
	cmd.AddCommand(cacheClearCmd())
	cmd.AddCommand(cacheStatsCmd())
	return cmd
}

func cacheDirFromConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig().Cache.ResolveDir()
	}
	return config.LoadOrDefault(cwd).Cache.ResolveDir()
}

func cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the persisted cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cacheDirFromConfig()
			if dir == "" {
				return fmt.Errorf("could not determine the cache directory")
			}
			mgr := cache.NewManager(cache.Options{Dir: dir})
			mgr.DeleteCache()
			fmt.Printf("Cleared cache at %s\n", dir)
			return nil
		},
	}
}

func cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the persisted cache contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cacheDirFromConfig()
			if dir == "" {
				return fmt.Errorf("could not determine the cache directory")
			}
			mgr := cache.NewManager(cache.Options{Dir: dir})
			mgr.Load()

			stats := mgr.Stats()
			fmt.Printf("Cache directory: %s\n", dir)
			fmt.Printf("Entries: %d\n", stats.Entries)
			return nil
		},
	}
}
