package schedule

import (
	"github.com/spf13/cobra"
)

// Cmd is the schedule command group.
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the scheduling pipeline",
	Long:  `Run the feasibility, assignment, and placement pipeline against your pending tasks and write the result to your calendar.`,
}

func init() {
	Cmd.AddCommand(runCmd)
}
