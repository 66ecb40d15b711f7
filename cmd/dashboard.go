package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/codetrack/internal/report"
	"github.com/manav03panchal/codetrack/internal/tui"
)

var dashboardFlagPeriod string

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "d", "tui"},
	Short:   "Open the interactive TUI dashboard",
	Long: `Open an interactive terminal dashboard to view and track time.

The dashboard shows:
  - Today, this week and all-time totals
  - The stopwatch for the selected activity
  - Every activity with its course or project and logged time
  - A chart of recent hours

Data reloads from storage in the background (every 5 minutes by default).

Keyboard Controls:
  ↑/↓, k/j - Select an activity
  enter, t - Time the selected activity
  space    - Start or pause
  s        - Finish and save
  x        - Reset the stopwatch
  tab, p   - Switch chart period
  r        - Refresh data
  q        - Quit dashboard

Examples:
  codetrack dashboard
  codetrack dash --period week`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVarP(&dashboardFlagPeriod, "period", "p", "", "Initial chart period: day, week, month")
	_ = dashboardCmd.RegisterFlagCompletionFunc("period", fixedCompletions("day", "week", "month"))
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if err := requireUser(); err != nil {
		return err
	}

	periodInput := dashboardFlagPeriod
	if periodInput == "" {
		periodInput = ctx.Config.Chart.Period
	}
	period, err := report.ParsePeriod(periodInput)
	if err != nil {
		return err
	}
	if err := requireTerminal("dashboard"); err != nil {
		return err
	}

	if err := ctx.StartAutoRefresh(); err != nil {
		return err
	}

	return tui.RunDashboard(tui.DashboardConfig{
		Store:    ctx.Store,
		Timer:    ctx.Timer,
		Recorder: ctx.Recorder,
		Period:   period,
		Color:    ctx.Formatter.IsColorEnabled(),
		Now:      ctx.Now,
	})
}
