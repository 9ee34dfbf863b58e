package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipdeck/internal/session"
)

func newAudioCommand(ctx *commandContext) *cobra.Command {
	audioCmd := &cobra.Command{
		Use:   "audio",
		Short: "Audio override for the stitched output",
	}

	audioCmd.AddCommand(&cobra.Command{
		Use:   "set <project-id> <audio-url>",
		Short: "Replace all clip audio with a single track",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				if err := sess.SetAudioOverride(cmd.Context(), args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Audio override set to %s\n", args[1])
				return nil
			})
		},
	})

	audioCmd.AddCommand(&cobra.Command{
		Use:   "clear <project-id>",
		Short: "Restore the clips' own audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				if err := sess.ClearAudioOverride(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Audio override cleared")
				return nil
			})
		},
	})

	return audioCmd
}

func newThumbnailCommand(ctx *commandContext) *cobra.Command {
	thumbCmd := &cobra.Command{
		Use:   "thumbnail",
		Short: "Project cover image",
	}

	thumbCmd.AddCommand(&cobra.Command{
		Use:   "set <project-id> <image-url>",
		Short: "Set the cover image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				if err := sess.SetThumbnail(cmd.Context(), args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Thumbnail set to %s\n", args[1])
				return nil
			})
		},
	})

	thumbCmd.AddCommand(&cobra.Command{
		Use:   "clear <project-id>",
		Short: "Remove the cover image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				if err := sess.ClearThumbnail(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Thumbnail cleared")
				return nil
			})
		},
	})

	return thumbCmd
}
