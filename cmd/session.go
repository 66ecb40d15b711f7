package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/output"
)

// Session command flags.
var (
	sessionFlagLimit int
	sessionFlagYes   bool
)

// sessionCmd represents the session command.
var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions", "s"},
	Short:   "List and delete logged sessions",
	Long: `Sessions are listed newest first. The index in the first column is what
'session delete' takes.

Examples:
  codetrack session list
  codetrack session list "Binary Trees"
  codetrack session delete "Binary Trees" 0`,
	Args: cobra.NoArgs,
	RunE: runSessionList,
}

var sessionListCmd = &cobra.Command{
	Use:               "list [ACTIVITY]",
	Aliases:           []string{"ls"},
	Short:             "List sessions, optionally for one activity",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeActivities,
	RunE:              runSessionList,
}

var sessionDeleteCmd = &cobra.Command{
	Use:               "delete ACTIVITY INDEX",
	Aliases:           []string{"rm"},
	Short:             "Delete a session by its index",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeActivities,
	RunE:              runSessionDelete,
}

func init() {
	for _, c := range []*cobra.Command{sessionCmd, sessionListCmd} {
		c.Flags().IntVarP(&sessionFlagLimit, "limit", "n", 10, "Sessions per activity (0 for all)")
	}
	sessionDeleteCmd.Flags().BoolVarP(&sessionFlagYes, "yes", "y", false, "Skip the confirmation prompt")

	sessionCmd.AddCommand(sessionListCmd, sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionList(cmd *cobra.Command, args []string) error {
	if err := requireUser(); err != nil {
		return err
	}

	var records []*model.ActivityRecord
	if len(args) == 1 {
		rec, err := ctx.Store.FindActivity(args[0])
		if err != nil {
			return err
		}
		records = []*model.ActivityRecord{rec}
	} else {
		for _, rec := range ctx.Store.Activities() {
			if len(rec.Sessions) > 0 {
				records = append(records, rec)
			}
		}
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintHistory(records)
	}

	cli := ctx.CLIFormatter()
	if len(records) == 0 {
		cli.Muted("No sessions logged yet.")
		cli.Muted("Use 'codetrack timer <activity>' or 'codetrack log 1h on <activity>'.")
		return nil
	}
	for i, rec := range records {
		if i > 0 {
			cli.Println()
		}
		cli.Printf("%s  %s  %s\n",
			cli.ActivityName(rec.Title),
			cli.ParentLabel(rec),
			cli.Duration(output.FormatDuration(rec.TotalSeconds())))
		cli.PrintSessions(rec, sessionFlagLimit)
	}
	return nil
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	if err := requireUser(); err != nil {
		return err
	}
	rec, err := ctx.Store.FindActivity(args[0])
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(args[1])
	if err != nil || index < 0 {
		return errors.NewUserErrorWithField("index", args[1], "Session index must be a whole number",
			errors.Suggestions[errors.ErrSessionNotFound])
	}
	if index >= len(rec.Sessions) {
		return fmt.Errorf("%w: %q has %d sessions", errors.ErrSessionNotFound, rec.Title, len(rec.Sessions))
	}

	s := rec.Sessions[index]
	prompt := fmt.Sprintf("Delete the %s session from %s?", output.FormatClock(s.Seconds), output.FormatDay(s.OccurredAt))
	ok, err := confirm(prompt, sessionFlagYes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.CLIFormatter().Muted("Cancelled.")
		return nil
	}

	deleted, err := ctx.Store.DeleteSession(cmd.Context(), rec.ID, index)
	if err != nil {
		return err
	}
	return printSessionChange("deleted", rec.ID, index, deleted)
}
