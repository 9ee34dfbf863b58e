package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clipdeck/internal/draftstore"
	"clipdeck/internal/session"
	"clipdeck/internal/studio"
	"clipdeck/internal/timeline"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Project lifecycle",
	}

	projectCmd.AddCommand(newProjectCreateCommand(ctx))
	projectCmd.AddCommand(newProjectListCommand(ctx))
	projectCmd.AddCommand(newProjectShowCommand(ctx))
	projectCmd.AddCommand(newProjectResumeCommand(ctx))
	projectCmd.AddCommand(newProjectDeleteDraftCommand(ctx))

	return projectCmd
}

func newProjectCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <title>",
		Short: "Create a remote project and open it locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			deps, cleanup, err := ctx.deps()
			if err != nil {
				return err
			}
			defer cleanup()

			sess, err := session.Create(cmd.Context(), cfg, deps, args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			project := sess.Project()
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%q)\n", project.ID, project.Title)
			return nil
		},
	}
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var localOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if localOnly {
				store, err := draftstore.Open(cfg)
				if err != nil {
					return err
				}
				defer store.Close()

				drafts, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, drafts)
				}
				rows := make([][]string, 0, len(drafts))
				for _, draft := range drafts {
					rows = append(rows, []string{
						draft.ProjectID,
						draft.ProjectTitle,
						string(draft.StitchStatus),
						draft.UpdatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "TITLE", "STITCH", "UPDATED"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			}

			client := studio.NewClient(cfg)
			projects, err := client.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, projects)
			}
			rows := make([][]string, 0, len(projects))
			for _, project := range projects {
				rows = append(rows, []string{
					project.ID,
					project.Title,
					strconv.Itoa(len(project.Clips)),
					strconv.Itoa(len(project.BrollClips)),
					string(project.StitchStatus),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "TITLE", "CLIPS", "BROLL", "STITCH"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&localOnly, "local", false, "List local drafts instead of remote projects")
	return cmd
}

func newProjectShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project's timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProjectSnapshot(cmd.Context(), ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, project)
			}
			renderProject(cmd, project)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of tables")
	return cmd
}

func newProjectResumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resume <project-id>",
		Short: "Reopen a project from its local draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), args[0], func(sess *session.Session) error {
				project := sess.Project()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Resumed %q (%d clips, %d overlays, stitch %s)\n",
					project.Title, len(project.Clips), len(project.BrollClips), project.StitchStatus)

				if project.StitchStatus == timeline.StitchStitching {
					fmt.Fprintln(out, "Render still in flight; waiting for a terminal outcome...")
					return watchStitch(cmd, sess)
				}
				return nil
			})
		},
	}
}

func newProjectDeleteDraftCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-draft <project-id>",
		Short: "Delete the local draft for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := draftstore.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted draft for %s (remote record untouched)\n", args[0])
			return nil
		},
	}
}

// loadProjectSnapshot reads a project without taking the session lock:
// local draft first, remote record as fallback.
func loadProjectSnapshot(ctx context.Context, cctx *commandContext, projectID string) (timeline.Project, error) {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return timeline.Project{}, err
	}
	store, err := draftstore.Open(cfg)
	if err != nil {
		return timeline.Project{}, err
	}
	defer store.Close()

	project, err := store.Load(ctx, projectID)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, draftstore.ErrNotFound) {
		return timeline.Project{}, err
	}
	return studio.NewClient(cfg).GetProject(ctx, projectID)
}

func renderProject(cmd *cobra.Command, project timeline.Project) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %q  stitch=%s\n", project.ID, project.Title, project.StitchStatus)
	if project.StitchedVideoURL != "" {
		fmt.Fprintf(out, "Stitched video: %s\n", project.StitchedVideoURL)
	}
	if project.StitchError != "" {
		fmt.Fprintf(out, "Stitch error: %s\n", project.StitchError)
	}
	if project.AudioURL != "" {
		fmt.Fprintf(out, "Audio override: %s\n", project.AudioURL)
	}
	if project.ThumbnailURL != "" {
		fmt.Fprintf(out, "Thumbnail: %s\n", project.ThumbnailURL)
	}

	clipRows := make([][]string, 0, len(project.Clips))
	for _, clip := range project.Clips {
		clipRows = append(clipRows, []string{
			strconv.Itoa(clip.Order),
			clip.ID,
			clip.DisplayName,
			formatSeconds(clip.Duration),
			formatTrim(clip),
			yesNo(clip.Muted),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "ID", "NAME", "DURATION", "TRIM", "MUTED"},
		clipRows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))

	if len(project.BrollClips) > 0 {
		brollRows := make([][]string, 0, len(project.BrollClips))
		for _, broll := range project.BrollClips {
			brollRows = append(brollRows, []string{
				broll.ID,
				broll.DisplayName,
				formatSeconds(broll.OffsetSeconds),
				string(broll.Position),
				strconv.FormatFloat(broll.Scale, 'f', 2, 64),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"ID", "NAME", "OFFSET", "POSITION", "SCALE"},
			brollRows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight},
		))
	}
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return strconv.FormatFloat(seconds, 'f', -1, 64) + "s"
}

func formatTrim(clip timeline.Clip) string {
	if clip.TrimStart == 0 && clip.TrimEnd == nil {
		return "-"
	}
	end := "end"
	if clip.TrimEnd != nil {
		end = strconv.FormatFloat(*clip.TrimEnd, 'f', -1, 64)
	}
	return strings.Join([]string{strconv.FormatFloat(clip.TrimStart, 'f', -1, 64), end}, "..")
}
