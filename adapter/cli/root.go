package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrelsoft/scheduler/pkg/observability"
)

var (
	cfgFile string
	verbose bool
	logger  *slog.Logger
	userID  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "scheduler - a CP/MILP-driven personal task scheduler",
	Long: `scheduler reads your pending tasks and recurring work windows, solves a
CP/MILP assignment of tasks to days, places each day's tasks at a concrete
time, and writes the result to your calendar.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := observability.NewRequestContext(cmd.Context(), "")
		ctx = observability.WithOperation(ctx, cmd.CommandPath())
		ctx = observability.WithUserID(ctx, userID)
		cmd.SetContext(ctx)
		logger.Info("command start",
			"command", cmd.CommandPath(),
			"correlation_id", observability.CorrelationIDFromContext(ctx),
			"user_id", observability.UserIDFromContext(ctx),
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Info("command end", "command", cmd.CommandPath())
	},
}

// Execute adds all child commands to the root command and parses flags.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetUserID sets the calendar owner's identifier attached to every command's
// context and log lines.
func SetUserID(id string) {
	userID = id
}
