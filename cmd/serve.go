package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"navisync/internal/server"
)

func init() {
	cmdRoot.AddCommand(cmdServe())
}

func cmdServe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve checks over HTTP, streaming results as server-sent events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if !cmd.Flags().Changed("addr") {
				if port := os.Getenv("PORT"); port != "" {
					addr = ":" + port
				}
			}
			return server.New(sess).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address (default port overridden by $PORT)")
	return cmd
}
