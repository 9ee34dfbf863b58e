package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"clipdeck/internal/httpapi"
	"clipdeck/internal/session"
	"clipdeck/internal/timeline"
)

func newStitchCommand(ctx *commandContext) *cobra.Command {
	stitchCmd := &cobra.Command{
		Use:   "stitch",
		Short: "Render the timeline into a single video",
	}

	stitchCmd.AddCommand(newStitchSubmitCommand(ctx))
	stitchCmd.AddCommand(newStitchStatusCommand(ctx))
	stitchCmd.AddCommand(newStitchWatchCommand(ctx))

	return stitchCmd
}

func newStitchSubmitCommand(ctx *commandContext) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "submit <project-id>",
		Short: "Submit the timeline for rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				if err := sess.SubmitStitch(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Stitch submitted")
				if !wait {
					return nil
				}
				return watchStitch(cmd, sess)
			})
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Block until the render reaches a terminal state")
	return cmd
}

func newStitchStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status <project-id>",
		Short: "Show the current stitch state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProjectSnapshot(cmd.Context(), ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"projectId":        project.ID,
					"status":           project.StitchStatus,
					"stitchedVideoUrl": project.StitchedVideoURL,
					"stitchError":      project.StitchError,
				})
			}
			printStitchState(cmd, project)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func newStitchWatchCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "watch <project-id>",
		Short: "Follow an in-flight render until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				if bind != "" {
					logger, err := ctx.ensureLogger()
					if err != nil {
						return err
					}
					cfg, err := ctx.ensureConfig()
					if err != nil {
						return err
					}
					server, err := httpapi.NewServer(httpapi.Options{
						Bind:    bind,
						Token:   cfg.Paths.APIToken,
						Logger:  logger,
						Session: sess,
					})
					if err != nil {
						return fmt.Errorf("start progress api: %w", err)
					}
					defer func() {
						shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
						defer cancel()
						_ = server.Shutdown(shutdownCtx)
					}()
					fmt.Fprintf(cmd.OutOrStdout(), "Progress API on http://%s\n", server.Addr())
				}

				if sess.Project().StitchStatus != timeline.StitchStitching {
					printStitchState(cmd, sess.Project())
					return nil
				}
				return watchStitch(cmd, sess)
			})
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Also serve the progress API on this address while watching")
	return cmd
}

// watchStitch blocks until the session's render reaches a terminal state,
// printing progress lines along the way.
func watchStitch(cmd *cobra.Command, sess *session.Session) error {
	out := cmd.OutOrStdout()
	lastStalled := false

	for {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-time.After(500 * time.Millisecond):
		}

		project := sess.Project()
		if project.StitchStatus.Terminal() {
			printStitchState(cmd, project)
			if project.StitchStatus == timeline.StitchFailed {
				return fmt.Errorf("stitch failed: %s", project.StitchError)
			}
			return nil
		}

		if snapshot, ok := sess.StitchSnapshot(); ok && snapshot.Stalled && !lastStalled {
			lastStalled = true
			fmt.Fprintln(out, "Render is taking longer than expected; still polling")
		}
	}
}

func printStitchState(cmd *cobra.Command, project timeline.Project) {
	out := cmd.OutOrStdout()
	switch project.StitchStatus {
	case timeline.StitchReady:
		fmt.Fprintf(out, "Stitch ready: %s\n", project.StitchedVideoURL)
	case timeline.StitchFailed:
		fmt.Fprintf(out, "Stitch failed: %s\n", project.StitchError)
	case timeline.StitchStitching:
		fmt.Fprintln(out, "Stitch in progress")
	default:
		fmt.Fprintln(out, "No stitch submitted")
	}
}
