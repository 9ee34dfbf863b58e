package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clipdeck/internal/session"
	"clipdeck/internal/timeline"
)

func newClipCommand(ctx *commandContext) *cobra.Command {
	clipCmd := &cobra.Command{
		Use:   "clip",
		Short: "Main-track clip edits",
	}

	clipCmd.AddCommand(newClipAddCommand(ctx))
	clipCmd.AddCommand(newClipRemoveCommand(ctx))
	clipCmd.AddCommand(newClipMoveCommand(ctx))
	clipCmd.AddCommand(newClipTrimCommand(ctx))
	clipCmd.AddCommand(newClipMuteCommand(ctx, true))
	clipCmd.AddCommand(newClipMuteCommand(ctx, false))
	clipCmd.AddCommand(newClipDurationCommand(ctx))

	return clipCmd
}

func newClipAddCommand(ctx *commandContext) *cobra.Command {
	var name string
	var duration float64

	cmd := &cobra.Command{
		Use:   "add <project-id> <source-url>",
		Short: "Append a clip to the end of the timeline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				clip, err := sess.AddClip(cmd.Context(), timeline.ClipInput{
					SourceURL:   args[1],
					DisplayName: name,
					Duration:    duration,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added clip %s (%q) at position %d\n", clip.ID, clip.DisplayName, clip.Order)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (derived from the URL when omitted)")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Natural duration in seconds, when known")
	return cmd
}

func newClipRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project-id> <clip-id>",
		Short: "Remove a clip and close the gap",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				if err := sess.RemoveClip(cmd.Context(), args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed clip %s\n", args[1])
				return nil
			})
		},
	}
}

func newClipMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <project-id> <from-index> <to-index>",
		Short: "Move a clip to a new timeline position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromIndex, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parse from-index: %w", err)
			}
			toIndex, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("parse to-index: %w", err)
			}
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				if err := sess.MoveClip(cmd.Context(), fromIndex, toIndex); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved clip %d -> %d\n", fromIndex, toIndex)
				return nil
			})
		},
	}
}

func newClipTrimCommand(ctx *commandContext) *cobra.Command {
	var start, end float64
	var clearEnd bool

	cmd := &cobra.Command{
		Use:   "trim <project-id> <clip-id>",
		Short: "Set a clip's trim window",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd := timeline.TrimUpdate{ClearTrimEnd: clearEnd}
			if cmd.Flags().Changed("start") {
				upd.TrimStart = &start
			}
			if cmd.Flags().Changed("end") {
				upd.TrimEnd = &end
			}
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				clip, err := sess.SetTrim(cmd.Context(), args[1], upd)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Trim for %s is now %s\n", clip.ID, formatTrim(clip))
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&start, "start", 0, "Trim start in seconds")
	cmd.Flags().Float64Var(&end, "end", 0, "Trim end in seconds")
	cmd.Flags().BoolVar(&clearEnd, "clear-end", false, "Drop the trim end (play to the natural end)")
	return cmd
}

func newClipMuteCommand(ctx *commandContext, muted bool) *cobra.Command {
	use, short := "mute", "Mute a clip's audio in the stitched output"
	if !muted {
		use, short = "unmute", "Restore a clip's audio in the stitched output"
	}
	return &cobra.Command{
		Use:   use + " <project-id> <clip-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				if err := sess.SetMuted(cmd.Context(), args[1], muted); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Clip %s muted: %s\n", args[1], yesNo(muted))
				return nil
			})
		},
	}
}

func newClipDurationCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "duration <project-id> <clip-id> <seconds>",
		Short: "Record a clip's probed natural duration",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("parse seconds: %w", err)
			}
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				if err := sess.SetClipDuration(cmd.Context(), args[1], seconds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded duration %ss for clip %s\n", args[2], args[1])
				return nil
			})
		},
	}
}
