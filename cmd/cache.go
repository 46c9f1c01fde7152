package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmdRoot.AddCommand(cmdCache())
}

func cmdCache() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the server song cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Re-download all track data from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			progress, done := crawlProgress()
			cache, err := sess.RefreshCache(cmd.Context(), progress)
			done()
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Song cache refreshed, found %d tracks.\n", cache.Len())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show the song cache size and location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(out(cmd), "Snapshot: %s (%s)\n", sess.SnapshotPath(), sess.Config().CacheBackend)
			progress, done := crawlProgress()
			cache, err := sess.EnsureCache(cmd.Context(), progress)
			done()
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Tracks:   %d\n", cache.Len())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the song cache snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess.InvalidateCache()
			fmt.Fprintln(out(cmd), "Song cache cleared.")
			return nil
		},
	})

	return cmd
}
