package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"navisync/internal/report"
)

func init() {
	cmdRoot.AddCommand(cmdReport())
}

func cmdReport() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize stored check results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary := report.Summarize(sess.AllResults(), time.Now())
			if summary.Total == 0 {
				return fmt.Errorf("no tracks have been checked yet, run check first")
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				return summary.Render(out(cmd))
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := summary.Render(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Report saved to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	return cmd
}
