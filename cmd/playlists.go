package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"navisync/internal/session"
)

func init() {
	cmdRoot.AddCommand(cmdPlaylists())
	cmdRoot.AddCommand(cmdSave())
	cmdRoot.AddCommand(cmdUpload())
	cmdRoot.AddCommand(cmdDownload())
	cmdRoot.AddCommand(cmdMerge())
	cmdRoot.AddCommand(cmdRemote())
}

func cmdPlaylists() *cobra.Command {
	return &cobra.Command{
		Use:   "playlists",
		Short: "List local and downloaded playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			local, err := sess.LocalPlaylists()
			if err != nil {
				return err
			}
			remote, err := sess.RemotePlaylists()
			if err != nil {
				return err
			}

			fmt.Fprintf(out(cmd), "Local (%s):\n", sess.Config().LocalPlaylistsPath)
			for _, name := range local {
				fmt.Fprintf(out(cmd), "  %s\n", name)
			}
			fmt.Fprintf(out(cmd), "Server (%s):\n", sess.Config().RemotePlaylistsPath)
			for _, name := range remote {
				fmt.Fprintf(out(cmd), "  %s\n", name)
			}
			return nil
		},
	}
}

func cmdSave() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save [playlist]",
		Short: "Overwrite local playlists with their validated tracks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if all {
				saved, err := sess.SaveAll()
				if err != nil {
					return err
				}
				for _, name := range saved {
					fmt.Fprintf(out(cmd), "Saved %s\n", name)
				}
				fmt.Fprintf(out(cmd), "Saved %d of %d checked playlists.\n", len(saved), len(sess.Checked()))
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("name a playlist or pass --all")
			}

			n, err := sess.Save(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Saved %d validated tracks to %s\n", n, args[0])
			return nil
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Save every checked playlist that changed")
	return cmd
}

func cmdUpload() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <playlist>",
		Short: "Create or overwrite a playlist on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromResults, _ := cmd.Flags().GetBool("from-results")

			var (
				summary session.UploadSummary
				err     error
			)
			if fromResults {
				summary, err = sess.UploadResults(cmd.Context(), args[0])
			} else {
				warmCache(cmd)
				summary, err = sess.Upload(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out(cmd), "Successfully %s playlist '%s'.\n", summary.Action(), summary.Name)
			fmt.Fprintf(out(cmd), "Tracks uploaded:  %d\n", summary.Uploaded)
			fmt.Fprintf(out(cmd), "Tracks not found: %d\n", summary.NotFound)
			return nil
		},
	}
	cmd.Flags().Bool("from-results", false, "Upload the validated matches of a checked local playlist")
	return cmd
}

func cmdDownload() *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Download every server playlist as M3U",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, total, err := sess.DownloadAll(cmd.Context())
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Downloaded %d of %d playlists to %s", ok, total, sess.Config().RemotePlaylistsPath)
			if ok < total {
				fmt.Fprintln(out(cmd), color.YellowString(msg))
				return nil
			}
			fmt.Fprintln(out(cmd), msg)
			return nil
		},
	}
}

func cmdMerge() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <server-playlist> <local-playlist>",
		Short: "Merge a downloaded playlist with a local one, dropping duplicates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			into, _ := cmd.Flags().GetString("into")
			output, _ := cmd.Flags().GetString("output")

			var mode session.MergeMode
			switch into {
			case "server":
				mode = session.MergeIntoRemote
			case "local":
				mode = session.MergeIntoLocal
			case "file":
				mode = session.MergeToFile
			default:
				return fmt.Errorf("--into must be server, local or file: %q", into)
			}
			if output != "" {
				mode = session.MergeToFile
			}

			dest, n, err := sess.Merge(mode, args[0], args[1], output)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Saved %d tracks to %s\n", n, dest)
			return nil
		},
	}
	cmd.Flags().String("into", "file", "Where to write: server (downloaded copy), local, or file")
	cmd.Flags().StringP("output", "o", "", "Destination file for --into file")
	return cmd
}

func cmdRemote() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage the downloaded playlists directory",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <local-playlist>",
		Short: "Copy a local playlist into the downloaded playlists directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := sess.AddToRemote(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Copied to %s\n", dest)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <playlist>",
		Short: "Delete one downloaded playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sess.DeleteRemote(args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every downloaded playlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := sess.ClearRemote()
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Deleted %d playlists.\n", n)
			return nil
		},
	})

	return cmd
}
