package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipdeck/internal/session"
	"clipdeck/internal/timeline"
)

func newBrollCommand(ctx *commandContext) *cobra.Command {
	brollCmd := &cobra.Command{
		Use:   "broll",
		Short: "Overlay (b-roll) edits",
	}

	brollCmd.AddCommand(newBrollAddCommand(ctx))
	brollCmd.AddCommand(newBrollUpdateCommand(ctx))
	brollCmd.AddCommand(newBrollRemoveCommand(ctx))

	return brollCmd
}

func brollInputFlags(cmd *cobra.Command, offset, scale *float64, position, name *string) {
	cmd.Flags().Float64Var(offset, "offset", 0, "Offset from the start of the stitched output, in seconds")
	cmd.Flags().StringVar(position, "position", "", "Corner anchor: top-left, top-right, bottom-left, bottom-right, center")
	cmd.Flags().Float64Var(scale, "scale", 0, "Overlay size as a fraction of the frame (0 < scale <= 1)")
	cmd.Flags().StringVar(name, "name", "", "Display name (derived from the URL when omitted)")
}

func newBrollAddCommand(ctx *commandContext) *cobra.Command {
	var offset, scale float64
	var position, name string

	cmd := &cobra.Command{
		Use:   "add <project-id> <source-url>",
		Short: "Add an overlay clip",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				broll, err := sess.AddBroll(cmd.Context(), timeline.BrollInput{
					SourceURL:     args[1],
					DisplayName:   name,
					OffsetSeconds: offset,
					Position:      timeline.BrollPosition(position),
					Scale:         scale,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added overlay %s at %ss (%s, scale %.2f)\n",
					broll.ID, formatSeconds(broll.OffsetSeconds), broll.Position, broll.Scale)
				return nil
			})
		},
	}

	brollInputFlags(cmd, &offset, &scale, &position, &name)
	return cmd
}

func newBrollUpdateCommand(ctx *commandContext) *cobra.Command {
	var offset, scale float64
	var position, name string

	cmd := &cobra.Command{
		Use:   "update <project-id> <broll-id>",
		Short: "Adjust an overlay's offset, position, or scale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				project := sess.Project()
				current, ok := project.BrollByID(args[1])
				if !ok {
					return fmt.Errorf("update broll %s: %w", args[1], timeline.ErrNotFound)
				}

				in := timeline.BrollInput{
					SourceURL:     current.SourceURL,
					DisplayName:   current.DisplayName,
					OffsetSeconds: current.OffsetSeconds,
					Position:      current.Position,
					Scale:         current.Scale,
				}
				if cmd.Flags().Changed("offset") {
					in.OffsetSeconds = offset
				}
				if cmd.Flags().Changed("position") {
					in.Position = timeline.BrollPosition(position)
				}
				if cmd.Flags().Changed("scale") {
					in.Scale = scale
				}
				if cmd.Flags().Changed("name") {
					in.DisplayName = name
				}

				if err := sess.UpdateBroll(cmd.Context(), args[1], in); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated overlay %s\n", args[1])
				return nil
			})
		},
	}

	brollInputFlags(cmd, &offset, &scale, &position, &name)
	return cmd
}

func newBrollRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project-id> <broll-id>",
		Short: "Remove an overlay clip",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				if err := sess.RemoveBroll(cmd.Context(), args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed overlay %s\n", args[1])
				return nil
			})
		},
	}
}
