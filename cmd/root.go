// Package cmd provides the CLI commands for CodeTrack.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/output"
	"github.com/manav03panchal/codetrack/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat   string
	flagColor    string
	flagDebug    bool
	flagUser     string
	flagConfig   string
	flagBackend  string
	flagDatabase string
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "codetrack",
	Short: "Track the time you spend on courses and projects",
	Long: `CodeTrack records coding sessions against activities that belong to a
course or a project, and reports where your hours go.

Examples:
  codetrack activity create "Binary Trees" --course "Intro to Programming"
  codetrack timer "Binary Trees"
  codetrack log 1h30m on "Binary Trees" --notes "AVL rotations"
  codetrack stats --period week
  codetrack dashboard`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupRuntime,
	RunE:              runStatus,
}

// setupRuntime builds the runtime context for every command that touches
// the store.
func setupRuntime(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "completion", "help", "version":
		return nil
	}

	format, err := output.ParseFormat(flagFormat)
	if err != nil {
		return errors.NewUserError(err.Error(), "Pass --format cli, json or plain.")
	}
	colorMode, err := output.ParseColorMode(flagColor)
	if err != nil {
		return errors.NewUserError(err.Error(), "Pass --color auto, always or never.")
	}

	opts := runtime.DefaultOptions()
	if flagConfig != "" {
		opts.ConfigPath = flagConfig
	}
	opts.User = flagUser
	opts.Backend = flagBackend
	opts.Database = flagDatabase
	opts.Format = format
	opts.ColorMode = colorMode
	opts.Debug = flagDebug

	ctx, err = runtime.New(cmd.Context(), opts)
	if err != nil {
		return err
	}
	ctx.Formatter.Writer = cmd.OutOrStdout()
	ctx.Debugf("runtime ready for %s (%s backend)", cmd.CommandPath(), ctx.Config.Backend)
	return nil
}

// runStatus shows the signed-in user's totals.
func runStatus(cmd *cobra.Command, args []string) error {
	if err := requireUser(); err != nil {
		return err
	}

	name := ctx.Config.UserName
	if name == "" {
		name = ctx.Store.UserID()
	}
	sum := output.BuildSummary(name,
		len(ctx.Store.Courses()), len(ctx.Store.Projects()),
		ctx.Store.Activities(), ctx.Now())

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(sum)
	}
	ctx.CLIFormatter().PrintSummary(sum)
	return nil
}

// Execute runs the root command, reports any error and releases the
// runtime.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		runtime.ReportError(ctx, rootCmd.ErrOrStderr(), err)
	}
	if ctx != nil {
		if cerr := ctx.Close(); cerr != nil && err == nil {
			err = cerr
		}
		ctx = nil
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "",
		"User to track time for (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default $XDG_CONFIG_HOME/codetrack/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "",
		"Storage backend: badger, sqlite")
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "database", "",
		"Database path, or :memory: for a throwaway store")

	_ = rootCmd.RegisterFlagCompletionFunc("format", fixedCompletions("cli", "json", "plain"))
	_ = rootCmd.RegisterFlagCompletionFunc("color", fixedCompletions("auto", "always", "never"))
	_ = rootCmd.RegisterFlagCompletionFunc("backend", fixedCompletions("badger", "sqlite"))

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("codetrack %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}
