package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clipdeck/internal/session"
)

// previewStep is one scripted player event.
type previewStep struct {
	op    string
	value float64
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var script string

	cmd := &cobra.Command{
		Use:   "preview <project-id> <clip-id>",
		Short: "Run a scripted playback simulation against a clip's trim window",
		Long: `Drives the playback synchronizer with a scripted event sequence and prints
the cursor state after each step. Steps are comma separated:

  load=<seconds>   player reports the natural duration
  play             start playback
  pause            stop playback
  tick=<seconds>   player time update
  seek=<seconds>   scrub to a position
  in               capture the cursor as the trim start
  out              capture the cursor as the trim end`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parsePreviewScript(script)
			if err != nil {
				return err
			}
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				if err := sess.SelectClip(args[1]); err != nil {
					return err
				}
				player := sess.Player()
				out := cmd.OutOrStdout()

				for _, step := range steps {
					switch step.op {
					case "load":
						player.OnLoaded(step.value)
					case "play":
						player.Play()
					case "pause":
						player.Pause()
					case "tick":
						player.OnTimeUpdate(step.value)
					case "seek":
						player.Seek(step.value)
					case "in":
						if err := player.SetIn(); err != nil {
							return err
						}
					case "out":
						if err := player.SetOut(); err != nil {
							return err
						}
					}

					state := player.State()
					fmt.Fprintf(out, "%-12s cursor=%.3f playing=%s trim=%s\n",
						formatPreviewStep(step), state.Cursor, yesNo(state.Playing), formatTrimWindow(state.TrimStart, state.TrimEnd))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&script, "script", "load=0", "Comma-separated player event script")
	return cmd
}

func parsePreviewScript(script string) ([]previewStep, error) {
	var steps []previewStep
	for _, raw := range strings.Split(script, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}

		op, valueText, hasValue := strings.Cut(token, "=")
		op = strings.TrimSpace(op)
		step := previewStep{op: op}

		switch op {
		case "load", "tick", "seek":
			if !hasValue {
				return nil, fmt.Errorf("preview step %q needs a value", token)
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(valueText), 64)
			if err != nil {
				return nil, fmt.Errorf("parse preview step %q: %w", token, err)
			}
			step.value = value
		case "play", "pause", "in", "out":
			if hasValue {
				return nil, fmt.Errorf("preview step %q does not take a value", token)
			}
		default:
			return nil, fmt.Errorf("unknown preview step %q", op)
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("preview script is empty")
	}
	return steps, nil
}

func formatPreviewStep(step previewStep) string {
	switch step.op {
	case "load", "tick", "seek":
		return fmt.Sprintf("%s=%g", step.op, step.value)
	default:
		return step.op
	}
}

func formatTrimWindow(start float64, end *float64) string {
	endText := "end"
	if end != nil {
		endText = strconv.FormatFloat(*end, 'f', -1, 64)
	}
	return strconv.FormatFloat(start, 'f', -1, 64) + ".." + endText
}
