package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/codetrack/internal/report"
)

// Stats command flags.
var (
	statsFlagPeriod   string
	statsFlagActivity []string
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"stat", "chart"},
	Short:   "Chart hours per day, week or month",
	Long: `Show logged hours in recent periods as a stacked chart, one color per
activity, followed by per-activity totals.

Periods:
  day    - the last 7 days
  week   - the last 5 weeks
  month  - the last 6 months

Examples:
  codetrack stats
  codetrack stats --period week
  codetrack stats --period month --activity "Binary Trees"`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsFlagPeriod, "period", "p", "", "Bucket size: day, week, month (default from config)")
	statsCmd.Flags().StringSliceVarP(&statsFlagActivity, "activity", "a", nil, "Only these activities (repeatable)")

	_ = statsCmd.RegisterFlagCompletionFunc("period", fixedCompletions("day", "week", "month"))
	_ = statsCmd.RegisterFlagCompletionFunc("activity", completeActivities)

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if err := requireUser(); err != nil {
		return err
	}

	periodInput := statsFlagPeriod
	if periodInput == "" {
		periodInput = ctx.Config.Chart.Period
	}
	period, err := report.ParsePeriod(periodInput)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(statsFlagActivity))
	for _, ref := range statsFlagActivity {
		rec, err := ctx.Store.FindActivity(ref)
		if err != nil {
			return err
		}
		ids = append(ids, rec.ID)
	}

	buckets := report.Bucketize(report.EntriesFrom(ctx.Store.Activities()), period, ctx.Now(), ids...)

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintStats(period, buckets)
	}
	ctx.CLIFormatter().PrintStats(period, buckets)
	return nil
}
