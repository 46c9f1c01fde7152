package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"navisync/internal/models"
	"navisync/internal/session"
)

func init() {
	cmdRoot.AddCommand(cmdCheck())
	cmdRoot.AddCommand(cmdResults())
	cmdRoot.AddCommand(cmdAccept())
	cmdRoot.AddCommand(cmdToggle())
	cmdRoot.AddCommand(cmdReplace())
	cmdRoot.AddCommand(cmdSearch())
}

// warmCache loads or builds the song cache with a spinner so that the check
// that follows does not crawl silently.
func warmCache(cmd *cobra.Command) {
	progress, done := crawlProgress()
	_, err := sess.EnsureCache(cmd.Context(), progress)
	done()
	if err != nil {
		slog.Warn("Song cache unavailable, every track will be searched", "error", err)
	}
}

func cmdCheck() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [playlist]",
		Short: "Match the tracks of a local playlist against the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if !all && len(args) == 0 {
				return fmt.Errorf("name a playlist or pass --all")
			}
			if !sess.Config().Complete() {
				return session.ErrIncompleteConfig
			}
			warmCache(cmd)

			progress, done := checkProgress()

			if !all {
				results, err := sess.Check(cmd.Context(), args[0], progress)
				done()
				if err != nil {
					return err
				}
				printResults(out(cmd), results)
				printTally(out(cmd), results)
				return nil
			}

			checked, err := sess.CheckAll(cmd.Context(), progress)
			done()
			if err != nil {
				return err
			}
			var every []models.CheckResult
			for _, name := range sess.Checked() {
				results, ok := checked[name]
				if !ok {
					continue
				}
				fmt.Fprintf(out(cmd), "%s: ", name)
				printTally(out(cmd), results)
				every = append(every, results...)
			}
			fmt.Fprintf(out(cmd), "\nChecked %d playlists. ", len(checked))
			printTally(out(cmd), every)
			return nil
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Check every playlist in the local playlists directory")
	return cmd
}

func cmdResults() *cobra.Command {
	return &cobra.Command{
		Use:   "results [playlist]",
		Short: "Show stored check results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				names := sess.Checked()
				if len(names) == 0 {
					fmt.Fprintln(out(cmd), "No playlist has been checked yet.")
				}
				for _, name := range names {
					results, _ := sess.Results(name)
					fmt.Fprintf(out(cmd), "%s: ", name)
					printTally(out(cmd), results)
				}
				return nil
			}

			results, err := sess.Results(args[0])
			if err != nil {
				return err
			}
			printResults(out(cmd), results)
			return nil
		},
	}
}

func cmdAccept() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept <playlist> [track]",
		Short: "Confirm a found or suggested match",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if all {
				n, err := sess.AcceptAll(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out(cmd), "Accepted %d tracks. Run save to write the playlist.\n", n)
				return nil
			}
			if len(args) < 2 {
				return fmt.Errorf("name a track number or pass --all")
			}

			idx, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			r, err := sess.Accept(args[0], idx)
			if err != nil {
				return err
			}
			printResult(out(cmd), idx, r)
			return nil
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Accept every found and suggested track")
	return cmd
}

func cmdToggle() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <playlist> <track>",
		Short: "Switch a track between found and suggestion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			r, err := sess.Toggle(args[0], idx)
			if err != nil {
				return err
			}
			printResult(out(cmd), idx, r)
			return nil
		},
	}
}

func cmdReplace() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replace <playlist> <track>",
		Short: "Link a track to a search result of your choice",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			query, _ := cmd.Flags().GetString("query")
			pick, _ := cmd.Flags().GetInt("pick")

			results, err := sess.Results(args[0])
			if err != nil {
				return err
			}
			if idx >= len(results) {
				return fmt.Errorf("track %d does not exist, the playlist has %d", idx+1, len(results))
			}
			if query == "" {
				t := results[idx].Track
				query = strings.TrimSpace(t.Artist + " " + t.Title)
			}

			hits, err := sess.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				return fmt.Errorf("no results for %q", query)
			}
			if pick < 1 || pick > len(hits) {
				printHits(cmd, hits)
				return fmt.Errorf("choose a result with --pick 1..%d", len(hits))
			}

			r, err := sess.Replace(args[0], idx, hits[pick-1])
			if err != nil {
				return err
			}
			printResult(out(cmd), idx, r)
			fmt.Fprintln(out(cmd), color.CyanString("Run save to write the playlist."))
			return nil
		},
	}
	cmd.Flags().StringP("query", "q", "", "Search query (default: the track's artist and title)")
	cmd.Flags().IntP("pick", "p", 0, "Number of the search result to use")
	return cmd
}

func cmdSearch() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>...",
		Short: "Search songs on the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hits, err := sess.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Fprintln(out(cmd), "No results.")
				return nil
			}
			printHits(cmd, hits)
			return nil
		},
	}
}

func printHits(cmd *cobra.Command, hits []models.CatalogEntry) {
	for i := range hits {
		fmt.Fprintf(out(cmd), "%3d %s  %s\n", i+1, entryLabel(&hits[i]), color.HiBlackString(hits[i].ID))
	}
}
