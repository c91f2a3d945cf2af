// ABOUTME: TUI command launching the interactive console
// ABOUTME: Logs go to a file in the config directory while the TUI owns the terminal

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/markalston/hrms-console/internal/logger"
	"github.com/markalston/hrms-console/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive console",
	Long: `Starts the full-screen console: sign in, browse the dashboard, and manage
companies, departments, employees, and attendance.

Logs are written to debug.log in the config directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runTUI(cmd.Context(), os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(io.Discard)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	dir := rt.cfg.ConfigDir
	if rt.cfg.Ephemeral {
		dir = ""
	}
	closeLog, err := logger.InitFile(rt.cfg.LogLevel, rt.cfg.LogFormat, dir)
	if err != nil {
		fmt.Fprintf(w, "Warning: logging disabled: %v\n", err)
	}
	defer closeLog()

	err = tui.Run(tui.Options{
		Session:       rt.session,
		API:           rt.api,
		Stores:        rt.stores,
		Gateway:       rt.gateway,
		APIURL:        rt.cfg.APIURL,
		NotifyTimeout: rt.cfg.NotifyTimeout,
		RedirectDelay: rt.cfg.RedirectDelay,
		Context:       ctx,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	return 0
}
