package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"navisync/internal/models"
	"navisync/internal/session"
)

var statusColors = map[models.Status]*color.Color{
	models.StatusOK:         color.New(color.FgBlue),
	models.StatusFound:      color.New(color.FgGreen),
	models.StatusSuggestion: color.New(color.FgYellow),
	models.StatusMissing:    color.New(color.FgRed),
}

func statusLabel(s models.Status) string {
	label := "[" + strings.ToUpper(s.String()) + "]"
	if c, ok := statusColors[s]; ok {
		return c.Sprint(label)
	}
	return label
}

func entryLabel(e *models.CatalogEntry) string {
	if e == nil {
		return "-"
	}
	return fmt.Sprintf("%s - %s [%s]", e.Artist, e.Title, e.Album)
}

func printResult(w io.Writer, i int, r models.CheckResult) {
	score := ""
	if r.Status != models.StatusMissing {
		score = fmt.Sprintf(" (%.0f%%)", r.Score)
	}
	fmt.Fprintf(w, "%3d %s %s - %s%s\n", i+1, statusLabel(r.Status), r.Track.Artist, r.Track.Title, score)
	if r.Match != nil {
		fmt.Fprintf(w, "      -> %s\n", entryLabel(r.Match))
	}
}

func printResults(w io.Writer, results []models.CheckResult) {
	for i, r := range results {
		printResult(w, i, r)
	}
}

func printTally(w io.Writer, results []models.CheckResult) {
	counts := make(map[models.Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	parts := make([]string, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		parts = append(parts, fmt.Sprintf("%s %d", statusColors[s].Sprint(s.String()), counts[s]))
	}
	fmt.Fprintf(w, "%d tracks: %s\n", len(results), strings.Join(parts, ", "))
}

// parseIndex turns a 1-based track number into a slice index.
func parseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("track number must be a positive integer: %q", arg)
	}
	return n - 1, nil
}

func newBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		max,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionClearOnFinish(),
	)
}

// crawlProgress shows a spinner while the song cache is built.
func crawlProgress() (func(int), func()) {
	bar := newBar(-1, "Building song cache (albums)")
	return func(n int) { bar.Set(n) }, func() { bar.Finish() }
}

// checkProgress shows one bar that follows the playlist being checked.
func checkProgress() (session.CheckProgress, func()) {
	var (
		bar     *progressbar.ProgressBar
		current string
	)
	update := func(name string, done, total int, _ *models.CheckResult) {
		if bar == nil || name != current {
			if bar != nil {
				bar.Finish()
			}
			current = name
			bar = newBar(total, "Checking "+name)
		}
		bar.Set(done)
	}
	finish := func() {
		if bar != nil {
			bar.Finish()
		}
	}
	return update, finish
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
