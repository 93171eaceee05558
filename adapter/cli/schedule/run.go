package schedule

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelsoft/scheduler/adapter/cli"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline once and write placements to the calendar",
	Long: `run executes Feasibility -> Free-Interval -> Assignment -> Placement ->
Calendar Writer exactly once against the configured task store, window-template
store, and calendar service.

Exit code 0 on success, non-zero on infeasibility or calendar I/O errors.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		if err := app.Pipeline().Run(cmd.Context()); err != nil {
			return fmt.Errorf("schedule run failed: %w", err)
		}

		fmt.Println("schedule run complete")
		return nil
	},
}
