// ABOUTME: Whoami command for the hrms CLI
// ABOUTME: Shows the logged-in user's profile and when the session expires

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/markalston/hrms-console/internal/present"
	"github.com/markalston/hrms-console/internal/session"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"profile"},
	Short:   "Show the logged-in user",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, rt *runtime) int {
			return runWhoami(rt, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami prints the restored session and returns the exit code
func runWhoami(rt *runtime, w io.Writer) int {
	if code := requireSession(rt, w); code != 0 {
		return code
	}

	snap := rt.session.Current()
	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(snap))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(snap))
	}
	return 0
}

// formatWhoamiHuman formats the profile for human readability
func formatWhoamiHuman(snap session.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(formatFields(present.UserFields(snap.User)))
	sb.WriteString(fmt.Sprintf("\nSession expires %s", humanize.Time(snap.ExpiresAt)))
	return sb.String()
}

// formatFields aligns labelled values in two columns
func formatFields(fields []present.Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Label))
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%-*s  %s", width+1, f.Label+":", f.Value))
	}
	return strings.Join(lines, "\n")
}
