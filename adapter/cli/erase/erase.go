// Package erase provides the "erase" CLI command: it deletes every
// application-owned event in a window of the calendar, leaving user events
// untouched. It exists so a re-run of the pipeline after a partial write
// failure doesn't duplicate events; see the Calendar Writer's round-trip
// contract.
package erase

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrelsoft/scheduler/adapter/cli"
	"github.com/kestrelsoft/scheduler/internal/calendar"
)

var lookAheadDays int

// Cmd deletes application-owned calendar events in the look-ahead window.
var Cmd = &cobra.Command{
	Use:   "erase",
	Short: "Delete previously written application-owned calendar events",
	Long: `erase lists upcoming events and deletes exactly those tagged as
application-owned, leaving the user's own events unchanged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		now := time.Now()
		deleted, err := calendar.Erase(cmd.Context(), app.Calendar, now, now.AddDate(0, 0, lookAheadDays))
		if err != nil {
			return fmt.Errorf("erase failed: %w", err)
		}

		fmt.Printf("erased %d application-owned event(s)\n", deleted)
		return nil
	},
}

func init() {
	Cmd.Flags().IntVar(&lookAheadDays, "days", 30, "how many days ahead to scan for application-owned events")
}
