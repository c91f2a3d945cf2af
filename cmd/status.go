// ABOUTME: Status command for the hrms CLI
// ABOUTME: Shows record counts and today's attendance across all four stores

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/markalston/hrms-console/internal/gateway"
	"github.com/markalston/hrms-console/internal/tui/dashboard"
	"github.com/markalston/hrms-console/internal/validation"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show record counts and today's attendance",
	Long:  `Loads every company, department, employee, and attendance record and prints a summary, like the console dashboard.`,
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, rt *runtime) int {
			return runStatus(ctx, rt, os.Stdout, time.Now())
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusResult is the JSON shape of the summary
type statusResult struct {
	User            string         `json:"user,omitempty"`
	Companies       int            `json:"companies"`
	ActiveCompanies int            `json:"activeCompanies"`
	Departments     int            `json:"departments"`
	Employees       int            `json:"employees"`
	ActiveEmployees int            `json:"activeEmployees"`
	Attendance      int            `json:"attendance"`
	Date            string         `json:"date"`
	Today           map[string]int `json:"today"`
	Errors          []string       `json:"errors,omitempty"`
}

// runStatus refreshes every store and returns the exit code: 2 when any
// store failed to load
func runStatus(ctx context.Context, rt *runtime, w io.Writer, now time.Time) int {
	if code := requireSession(rt, w); code != 0 {
		return code
	}

	// Per-store failures are reported in the summary; a session failure
	// makes them moot
	if err := rt.stores.RefreshAll(ctx); err != nil {
		if _, ended := gateway.AsSessionError(err); ended {
			return reportError(w, err)
		}
	}

	date := now.Format(validation.DateLayout)
	s := dashboard.Summarize(rt.stores, rt.session.User(), date)
	res := statusResult{
		User:            s.User,
		Companies:       s.Companies,
		ActiveCompanies: s.ActiveCompanies,
		Departments:     s.Departments,
		Employees:       s.Employees,
		ActiveEmployees: s.ActiveEmployees,
		Attendance:      s.Attendance,
		Date:            date,
		Today:           s.Today,
		Errors:          s.Errors,
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatStatusJSON(res))
	} else {
		fmt.Fprintln(w, formatStatusHuman(res))
	}

	if len(res.Errors) > 0 {
		return 2
	}
	return 0
}

// formatStatusHuman formats the summary for human readability
func formatStatusHuman(res statusResult) string {
	today := "none recorded"
	if len(res.Today) > 0 {
		var parts []string
		for _, status := range slices.Sorted(maps.Keys(res.Today)) {
			parts = append(parts, fmt.Sprintf("%s %d", status, res.Today[status]))
		}
		today = strings.Join(parts, ", ")
	}

	out := fmt.Sprintf(`Companies:    %d (%d active)
Departments:  %d
Employees:    %d (%d active)
Attendance:   %d records
Today (%s): %s`,
		res.Companies, res.ActiveCompanies,
		res.Departments,
		res.Employees, res.ActiveEmployees,
		res.Attendance,
		res.Date, today)

	for _, e := range res.Errors {
		out += "\nError: " + e
	}
	return out
}

// formatStatusJSON formats the summary as JSON
func formatStatusJSON(res statusResult) string {
	data, _ := json.MarshalIndent(res, "", "  ")
	return string(data)
}
