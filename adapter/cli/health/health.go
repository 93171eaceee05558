// Package health provides the "health" CLI command: a preflight connectivity
// check against the configured calendar service and task/template stores, so
// a cron-driven "schedule run" can be preceded by a cheap readiness probe
// instead of discovering a dead calendar mid-pipeline.
package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrelsoft/scheduler/adapter/cli"
	"github.com/kestrelsoft/scheduler/pkg/observability"
)

// Cmd runs the calendar and store health checks and prints the aggregated
// result as JSON. It exits non-zero if any component is unhealthy.
var Cmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity to the calendar service and task/template stores",
	Long: `health pings the configured calendar service and the pending-task and
window-template stores, and prints an aggregated status. It exits non-zero if
any component is unhealthy, so it can gate a scheduled "schedule run" in a
cron job or systemd timer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		registry := observability.NewHealthRegistry()
		registry.Register("calendar", observability.CalendarHealthChecker(func(ctx context.Context) error {
			now := time.Now()
			_, err := app.Calendar.ListUpcoming(ctx, now, now.Add(time.Hour))
			return err
		}))
		registry.Register("task_store", observability.TaskStoreHealthChecker(func(ctx context.Context) error {
			_, err := app.Tasks.PendingTasks()
			return err
		}))
		registry.Register("window_store", observability.TaskStoreHealthChecker(func(ctx context.Context) error {
			_, err := app.Templates.WorkTemplates()
			return err
		}))

		overall := registry.GetOverallHealth(cmd.Context())
		out, err := overall.ToJSON()
		if err != nil {
			return fmt.Errorf("marshal health result: %w", err)
		}
		fmt.Println(string(out))

		if overall.Status != observability.HealthStatusHealthy {
			os.Exit(1)
		}
		return nil
	},
}
