package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/tracker"
)

// Activity command flags.
var (
	activityFlagCourse      string
	activityFlagProject     string
	activityFlagTitle       string
	activityFlagDescription string
	activityFlagLimit       int
	activityFlagYes         bool
)

// activityCmd represents the activity command.
var activityCmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"activities", "act", "a"},
	Short:   "Manage activities",
	Long: `Activities are the things you time: an assignment, a chapter, a feature.
Each one belongs to exactly one course or project.

Examples:
  codetrack activity
  codetrack activity create "Binary Trees" --course "Intro to Programming"
  codetrack activity show "Binary Trees"
  codetrack activity edit "Binary Trees" --project "Portfolio Website"
  codetrack activity delete "Binary Trees" --yes`,
	Args: cobra.NoArgs,
	RunE: runActivityList,
}

var activityListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List activities",
	Args:    cobra.NoArgs,
	RunE:    runActivityList,
}

var activityShowCmd = &cobra.Command{
	Use:               "show ACTIVITY",
	Short:             "Show an activity with its sessions",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeActivities,
	RunE:              runActivityShow,
}

var activityCreateCmd = &cobra.Command{
	Use:   "create TITLE",
	Short: "Create an activity under a course or project",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivityCreate,
}

var activityEditCmd = &cobra.Command{
	Use:               "edit ACTIVITY",
	Short:             "Rename, describe or move an activity",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeActivities,
	RunE:              runActivityEdit,
}

var activityDeleteCmd = &cobra.Command{
	Use:               "delete ACTIVITY",
	Aliases:           []string{"rm"},
	Short:             "Delete an activity and its sessions",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeActivities,
	RunE:              runActivityDelete,
}

func init() {
	for _, c := range []*cobra.Command{activityCmd, activityListCmd} {
		c.Flags().StringVar(&activityFlagCourse, "course", "", "Only activities of this course")
		c.Flags().StringVar(&activityFlagProject, "project", "", "Only activities of this project")
	}

	activityShowCmd.Flags().IntVarP(&activityFlagLimit, "limit", "n", 10, "Sessions to show (0 for all)")

	activityCreateCmd.Flags().StringVar(&activityFlagCourse, "course", "", "Parent course")
	activityCreateCmd.Flags().StringVar(&activityFlagProject, "project", "", "Parent project")
	activityCreateCmd.Flags().StringVarP(&activityFlagDescription, "description", "d", "", "Description")

	activityEditCmd.Flags().StringVarP(&activityFlagTitle, "title", "t", "", "New title")
	activityEditCmd.Flags().StringVarP(&activityFlagDescription, "description", "d", "", "New description")
	activityEditCmd.Flags().StringVar(&activityFlagCourse, "course", "", "Move to this course")
	activityEditCmd.Flags().StringVar(&activityFlagProject, "project", "", "Move to this project")

	activityDeleteCmd.Flags().BoolVarP(&activityFlagYes, "yes", "y", false, "Skip the confirmation prompt")

	for _, c := range []*cobra.Command{activityCmd, activityListCmd, activityCreateCmd, activityEditCmd} {
		_ = c.RegisterFlagCompletionFunc("course", completeContainers(model.KindCourse))
		_ = c.RegisterFlagCompletionFunc("project", completeContainers(model.KindProject))
	}

	activityCmd.AddCommand(activityListCmd, activityShowCmd, activityCreateCmd, activityEditCmd, activityDeleteCmd)
	rootCmd.AddCommand(activityCmd)
}

// parentFromFlags resolves --course or --project to a container. ok is false
// when neither flag was given.
func parentFromFlags() (c *model.Container, ok bool, err error) {
	switch {
	case activityFlagCourse != "" && activityFlagProject != "":
		return nil, false, errors.NewUserError("Pass either --course or --project, not both",
			"An activity belongs to exactly one course or project.")
	case activityFlagCourse != "":
		c, err = ctx.Store.FindContainer(model.KindCourse, activityFlagCourse)
	case activityFlagProject != "":
		c, err = ctx.Store.FindContainer(model.KindProject, activityFlagProject)
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func runActivityList(cmd *cobra.Command, args []string) error {
	if err := requireUser(); err != nil {
		return err
	}

	records := ctx.Store.Activities()
	parent, filtered, err := parentFromFlags()
	if err != nil {
		return err
	}
	if filtered {
		kept := records[:0]
		for _, r := range records {
			if r.ParentKind == parent.Kind && r.ParentID == parent.ID {
				kept = append(kept, r)
			}
		}
		records = kept
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintActivities(records)
	}
	ctx.CLIFormatter().PrintActivities(records)
	return nil
}

func runActivityShow(cmd *cobra.Command, args []string) error {
	if err := requireUser(); err != nil {
		return err
	}
	rec, err := ctx.Store.FindActivity(args[0])
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintActivity(rec)
	}
	ctx.CLIFormatter().PrintActivity(rec, activityFlagLimit)
	return nil
}

func runActivityCreate(cmd *cobra.Command, args []string) error {
	if err := requireUser(); err != nil {
		return err
	}
	parent, ok, err := parentFromFlags()
	if err != nil {
		return err
	}
	if !ok {
		return errors.Invalid("parent", "", errors.ErrParentRequired)
	}

	rec, err := ctx.Store.CreateActivity(cmd.Context(), tracker.ActivityInput{
		Title:       args[0],
		Description: activityFlagDescription,
		ParentKind:  parent.Kind,
		ParentID:    parent.ID,
	})
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintActivityChange("created", rec)
	}
	cli := ctx.CLIFormatter()
	cli.Success("Created activity " + cli.ActivityName(rec.Title))
	cli.Printf("  %s\n", cli.ParentLabel(rec))
	return nil
}

func runActivityEdit(cmd *cobra.Command, args []string) error {
	if err := requireUser(); err != nil {
		return err
	}
	existing, err := ctx.Store.FindActivity(args[0])
	if err != nil {
		return err
	}

	var patch tracker.ActivityPatch
	if cmd.Flags().Changed("title") {
		patch.Title = &activityFlagTitle
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &activityFlagDescription
	}
	parent, move, err := parentFromFlags()
	if err != nil {
		return err
	}
	if move {
		patch.ParentKind = &parent.Kind
		patch.ParentID = &parent.ID
	}

	rec, err := ctx.Store.UpdateActivity(cmd.Context(), existing.ID, patch)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintActivityChange("updated", rec)
	}
	cli := ctx.CLIFormatter()
	cli.Success("Updated activity " + cli.ActivityName(rec.Title))
	cli.Printf("  %s\n", cli.ParentLabel(rec))
	return nil
}

func runActivityDelete(cmd *cobra.Command, args []string) error {
	if err := requireUser(); err != nil {
		return err
	}
	rec, err := ctx.Store.FindActivity(args[0])
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Delete activity %q and its %d sessions?", rec.Title, len(rec.Sessions))
	ok, err := confirm(prompt, activityFlagYes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.CLIFormatter().Muted("Cancelled.")
		return nil
	}

	if err := ctx.Store.DeleteActivity(cmd.Context(), rec.ID); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintActivityChange("deleted", rec)
	}
	ctx.CLIFormatter().Success("Deleted activity " + rec.Title)
	return nil
}
