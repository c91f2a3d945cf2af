// ABOUTME: Login and logout commands for the hrms CLI
// ABOUTME: Starts a session against the backend and saves it for later commands

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/session"
	"github.com/markalston/hrms-console/internal/validation"
	"github.com/spf13/cobra"
)

var (
	loginUsername      string
	loginPasswordStdin bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the HRMS backend",
	Long: `Log in with a username and password. The session is saved under the config
directory and reused by later commands until it expires or you log out.

The password is prompted for unless --password-stdin is given.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, rt *runtime) int {
			creds := client.Credentials{Username: loginUsername}
			if loginPasswordStdin {
				password, err := readLine(os.Stdin)
				if err != nil {
					fmt.Fprintf(os.Stdout, "Error: %v\n", err)
					return 2
				}
				creds.Password = password
			}
			if creds.Username == "" || creds.Password == "" {
				if err := promptCredentials(&creds); err != nil {
					fmt.Fprintf(os.Stdout, "Error: %v\n", err)
					return 2
				}
			}
			return runLogin(ctx, rt, os.Stdout, creds)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the saved session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, rt *runtime) int {
			return runLogout(rt, os.Stdout)
		})
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

// loginResult is the JSON shape printed after login and by whoami
type loginResult struct {
	User      *client.User `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// runLogin validates the credentials, logs in, and returns the exit code
func runLogin(ctx context.Context, rt *runtime, w io.Writer, creds client.Credentials) int {
	if err := validation.Check(&creds); err != nil {
		return reportError(w, err)
	}

	snap, err := rt.session.Login(ctx, creds)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(snap))
	} else {
		fmt.Fprintln(w, formatLoginHuman(snap))
	}
	return 0
}

// runLogout clears the saved session. Logging out twice is not an error.
func runLogout(rt *runtime, w io.Writer) int {
	wasLoggedIn := rt.session.State() == session.Authenticated
	if err := rt.session.Logout(); err != nil {
		return reportError(w, err)
	}
	if wasLoggedIn {
		fmt.Fprintln(w, "Logged out.")
	} else {
		fmt.Fprintln(w, "Not logged in.")
	}
	return 0
}

// formatLoginHuman formats a fresh session for human readability
func formatLoginHuman(snap session.Snapshot) string {
	name := snap.User.DisplayName()
	if snap.User.Role != "" {
		name = fmt.Sprintf("%s (%s)", name, snap.User.Role)
	}
	return fmt.Sprintf("Logged in as %s\nSession expires %s", name, humanize.Time(snap.ExpiresAt))
}

// formatSessionJSON formats a session as JSON
func formatSessionJSON(snap session.Snapshot) string {
	data, _ := json.MarshalIndent(loginResult{User: snap.User, ExpiresAt: snap.ExpiresAt}, "", "  ")
	return string(data)
}

// promptCredentials asks for whichever credentials are missing
func promptCredentials(creds *client.Credentials) error {
	var fields []huh.Field
	if creds.Username == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(&creds.Username))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&creds.Password))
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase()).Run()
}

// readLine reads one line from r without the trailing newline
func readLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return "", nil
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}
