package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/codetrack/internal/tui"
)

var timerFlagStart bool

// timerCmd represents the timer command.
var timerCmd = &cobra.Command{
	Use:     "timer ACTIVITY",
	Aliases: []string{"t", "start"},
	Short:   "Time an activity with an interactive stopwatch",
	Long: `Open a stopwatch for one activity. Finished time is saved as a session.

Keyboard Controls:
  space - Start or pause
  enter - Finish and save (you can add notes)
  r     - Reset (asks first when time would be lost)
  q     - Quit (asks first when time would be lost)

Examples:
  codetrack timer "Binary Trees"
  codetrack timer "Binary Trees" --start`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeActivities,
	RunE:              runTimer,
}

func init() {
	timerCmd.Flags().BoolVarP(&timerFlagStart, "start", "s", false, "Start timing immediately")
	rootCmd.AddCommand(timerCmd)
}

func runTimer(cmd *cobra.Command, args []string) error {
	if err := requireUser(); err != nil {
		return err
	}
	rec, err := ctx.Store.FindActivity(args[0])
	if err != nil {
		return err
	}
	if err := requireTerminal("timer"); err != nil {
		return err
	}

	saved, err := tui.RunStopwatch(tui.StopwatchConfig{
		Timer:     ctx.Timer,
		Recorder:  ctx.Recorder,
		Activity:  rec,
		Color:     ctx.Formatter.IsColorEnabled(),
		AutoStart: timerFlagStart,
	})
	if err != nil {
		return fmt.Errorf("stopwatch: %w", err)
	}

	for _, s := range saved {
		if err := printSessionChange("recorded", rec.ID, -1, s); err != nil {
			return err
		}
	}
	return nil
}
