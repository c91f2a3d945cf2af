// ABOUTME: Password command for the hrms CLI
// ABOUTME: Changes the logged-in user's password and then ends the session

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/validation"
	"github.com/spf13/cobra"
)

var passwordStdin bool

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	Long: `Change the logged-in user's password. You are logged out afterwards and
must log in again with the new password.

With --stdin the current password, the new password, and its confirmation
are read from three lines of stdin.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, rt *runtime) int {
			var change client.PasswordChange
			var err error
			if passwordStdin {
				change, err = readPasswordChange(os.Stdin)
			} else {
				err = promptPasswordChange(&change)
			}
			if err != nil {
				fmt.Fprintf(os.Stdout, "Error: %v\n", err)
				return 2
			}
			return runPassword(ctx, rt, os.Stdout, change)
		})
	},
}

func init() {
	passwordCmd.Flags().BoolVar(&passwordStdin, "stdin", false, "Read the passwords from stdin")
	rootCmd.AddCommand(passwordCmd)
}

// runPassword validates and submits a password change
func runPassword(ctx context.Context, rt *runtime, w io.Writer, change client.PasswordChange) int {
	if code := requireSession(rt, w); code != 0 {
		return code
	}
	if err := validation.Check(&change); err != nil {
		return reportError(w, err)
	}

	msg, err := rt.api.Auth.ChangePassword(ctx, change)
	if err != nil {
		return reportError(w, err)
	}
	if msg == "" {
		msg = "Password changed successfully."
	}
	if err := rt.session.Logout(); err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]string{"message": msg}, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "%s\nPlease log in again with your new password.\n", msg)
	}
	return 0
}

func promptPasswordChange(change *client.PasswordChange) error {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Current password").EchoMode(huh.EchoModePassword).Value(&change.OldPassword),
		huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(&change.NewPassword),
		huh.NewInput().Title("Confirm new password").EchoMode(huh.EchoModePassword).Value(&change.ConfirmPassword),
	)).WithTheme(huh.ThemeBase()).Run()
}

// readPasswordChange reads old, new, and confirmation passwords, one per line
func readPasswordChange(r io.Reader) (client.PasswordChange, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for len(lines) < 3 && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return client.PasswordChange{}, fmt.Errorf("failed to read stdin: %w", err)
	}
	for len(lines) < 3 {
		lines = append(lines, "")
	}
	return client.PasswordChange{OldPassword: lines[0], NewPassword: lines[1], ConfirmPassword: lines[2]}, nil
}
