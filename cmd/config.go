package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"navisync/internal/config"
)

func init() {
	cmdRoot.AddCommand(cmdPing())
	cmdRoot.AddCommand(cmdConfig())
}

func cmdPing() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Verify the server connection and credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := sess.VerifyConnection(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), color.GreenString("Connection successful!"))
			return nil
		},
	}
}

func cmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := sess.Config()
			for _, key := range config.Keys {
				value, err := cfg.Get(key)
				if err != nil {
					return err
				}
				if key == "password" && value != "" {
					value = strings.Repeat("*", 8)
				}
				fmt.Fprintf(out(cmd), "%-20s %s\n", key, value)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := sess.SetConfig(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s updated\n", args[0])
			if changed {
				fmt.Fprintln(out(cmd), color.YellowString("Connection settings changed, song cache cleared."))
			}
			return nil
		},
	})

	return cmd
}
