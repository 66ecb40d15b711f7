package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/parser"
	"github.com/manav03panchal/codetrack/internal/tracker"
)

// Log command flags.
var (
	logFlagActivity string
	logFlagNotes    string
	logFlagDate     string
)

// logCmd represents the log command.
var logCmd = &cobra.Command{
	Use:     "log DURATION on ACTIVITY",
	Aliases: []string{"l", "add"},
	Short:   "Log time you already spent",
	Long: `Record a session without running the timer.

Duration formats:
  2h, 2 hours, 2hr     - 2 hours
  30m, 30 minutes      - 30 minutes
  1h30m, 1.5h          - 1 hour 30 minutes
  25:00, 1:02:03       - stopwatch readings

Examples:
  codetrack log 2h on "Binary Trees"
  codetrack log 45m on "Binary Trees" --notes "insert and delete"
  codetrack log 1h30m on homework --date yesterday
  codetrack log 90m on homework with note 'reading week'`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeLogArgs,
	RunE:              runLog,
}

func init() {
	logCmd.Flags().StringVarP(&logFlagActivity, "activity", "a", "", "Activity title or id")
	logCmd.Flags().StringVarP(&logFlagNotes, "notes", "n", "", "Notes for the session")
	logCmd.Flags().StringVarP(&logFlagDate, "date", "d", "", "When it happened (e.g. yesterday, 2026-03-01)")

	_ = logCmd.RegisterFlagCompletionFunc("activity", completeActivities)

	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	if err := requireUser(); err != nil {
		return err
	}

	parsed := parser.ParseLog(args)
	parsed.Merge(logFlagActivity, logFlagNotes)

	seconds, err := parser.ParseSeconds(parsed.RawDuration)
	if err != nil {
		return err
	}
	if !parsed.HasActivity {
		return errors.NewUserError("No activity given",
			"Name the activity after 'on', e.g. codetrack log 1h on \"Binary Trees\".")
	}

	rec, err := ctx.Store.FindActivity(parsed.Activity)
	if err != nil {
		return err
	}

	occurredAt, err := parser.ParseSessionDate(logFlagDate, ctx.Now())
	if err != nil {
		return err
	}

	session, err := ctx.Store.RecordSession(cmd.Context(), tracker.SessionInput{
		ActivityID: rec.ID,
		Seconds:    seconds,
		Notes:      parsed.Note,
		OccurredAt: occurredAt,
		Source:     model.SourceManual,
	})
	if err != nil {
		return err
	}

	return printSessionChange("recorded", rec.ID, -1, session)
}

// printSessionChange reports a recorded or deleted session along with the
// activity's totals after the change. A negative index is looked up.
func printSessionChange(status, activityID string, index int, session *model.Session) error {
	rec, err := ctx.Store.Activity(activityID)
	if err != nil {
		return err
	}

	if index < 0 {
		index = tracker.IndexOf(rec, session.ID)
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintSession(status, index, session, rec)
	}
	cli := ctx.CLIFormatter()
	if status == "deleted" {
		cli.PrintSessionDeleted(rec, session)
	} else {
		cli.PrintSessionRecorded(rec, session)
	}
	return nil
}
