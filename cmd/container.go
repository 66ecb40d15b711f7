package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/tracker"
)

// containerFlags holds the flags shared by the course and project
// subcommands.
type containerFlags struct {
	title       string
	description string
	color       string
	yes         bool
}

// newContainerCmd builds the command tree for courses or projects. Both
// kinds share one shape, so they share one implementation.
func newContainerCmd(kind model.ParentKind) *cobra.Command {
	noun := string(kind)
	flags := &containerFlags{}

	root := &cobra.Command{
		Use:     noun,
		Aliases: []string{noun + "s"},
		Short:   fmt.Sprintf("Manage %ss", noun),
		Long: fmt.Sprintf(`List, create, edit and delete %[1]ss. Activities belong to a %[1]s.

Examples:
  codetrack %[1]s
  codetrack %[1]s create "Data Structures" --color "#7D56F4"
  codetrack %[1]s edit "Data Structures" --title "Algorithms"
  codetrack %[1]s delete "Algorithms" --yes`, noun),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContainerList(kind)
		},
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %ss", noun),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContainerList(kind)
		},
	}

	create := &cobra.Command{
		Use:   "create TITLE",
		Short: fmt.Sprintf("Create a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContainerCreate(cmd, kind, args[0], flags)
		},
	}
	create.Flags().StringVarP(&flags.description, "description", "d", "", "Description")
	create.Flags().StringVarP(&flags.color, "color", "c", "", "Hex color (#RRGGBB)")

	edit := &cobra.Command{
		Use:               "edit " + strings.ToUpper(noun),
		Short:             fmt.Sprintf("Edit a %s", noun),
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeContainers(kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContainerEdit(cmd, kind, args[0], flags)
		},
	}
	edit.Flags().StringVarP(&flags.title, "title", "t", "", "New title")
	edit.Flags().StringVarP(&flags.description, "description", "d", "", "New description")
	edit.Flags().StringVarP(&flags.color, "color", "c", "", "New hex color (empty clears it)")

	del := &cobra.Command{
		Use:               "delete " + strings.ToUpper(noun),
		Aliases:           []string{"rm"},
		Short:             fmt.Sprintf("Delete a %s with all of its activities", noun),
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeContainers(kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContainerDelete(cmd, kind, args[0], flags)
		},
	}
	del.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Skip the confirmation prompt")

	root.AddCommand(list, create, edit, del)
	return root
}

func init() {
	rootCmd.AddCommand(newContainerCmd(model.KindCourse))
	rootCmd.AddCommand(newContainerCmd(model.KindProject))
}

func runContainerList(kind model.ParentKind) error {
	if err := requireUser(); err != nil {
		return err
	}

	containers := ctx.Store.Containers(kind)
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintContainers(containers)
	}
	ctx.CLIFormatter().PrintContainers(kind, containers, ctx.Store.Activities())
	return nil
}

func runContainerCreate(cmd *cobra.Command, kind model.ParentKind, title string, flags *containerFlags) error {
	c, err := ctx.Store.CreateContainer(cmd.Context(), kind, tracker.ContainerInput{
		Title:       title,
		Description: flags.description,
		Color:       flags.color,
	})
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintContainer("created", c, 0)
	}
	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Created %s %s", kind, cli.ContainerName(c.Title, c.Color)))
	return nil
}

func runContainerEdit(cmd *cobra.Command, kind model.ParentKind, ref string, flags *containerFlags) error {
	if err := requireUser(); err != nil {
		return err
	}
	existing, err := ctx.Store.FindContainer(kind, ref)
	if err != nil {
		return err
	}

	var patch tracker.ContainerPatch
	if cmd.Flags().Changed("title") {
		patch.Title = &flags.title
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &flags.description
	}
	if cmd.Flags().Changed("color") {
		patch.Color = &flags.color
	}

	c, err := ctx.Store.UpdateContainer(cmd.Context(), kind, existing.ID, patch)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintContainer("updated", c, 0)
	}
	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Updated %s %s", kind, cli.ContainerName(c.Title, c.Color)))
	return nil
}

func runContainerDelete(cmd *cobra.Command, kind model.ParentKind, ref string, flags *containerFlags) error {
	if err := requireUser(); err != nil {
		return err
	}
	c, err := ctx.Store.FindContainer(kind, ref)
	if err != nil {
		return err
	}

	ok, err := confirm(fmt.Sprintf("Delete %s %q and all of its activities?", kind, c.Title), flags.yes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.CLIFormatter().Muted("Cancelled.")
		return nil
	}

	removed, err := ctx.Store.DeleteContainer(cmd.Context(), kind, c.ID)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintContainer("deleted", c, removed)
	}
	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Deleted %s %s", kind, c.Title))
	if removed > 0 {
		cli.Muted(fmt.Sprintf("  %d activities removed with it", removed))
	}
	return nil
}
