// ABOUTME: Register command for the hrms CLI
// ABOUTME: Creates a backend account; no session is required

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/present"
	"github.com/markalston/hrms-console/internal/validation"
	"github.com/spf13/cobra"
)

var (
	registration     client.Registration
	registerPwdStdin bool
	registerListOnly bool
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long: `Register a new account with the backend. Use --list-companies to see the
companies an account can join, then pass one with --company-id.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, rt *runtime) int {
			if registerListOnly {
				return runPublicCompanies(ctx, rt, os.Stdout)
			}
			reg := registration
			if registerPwdStdin {
				password, err := readLine(os.Stdin)
				if err != nil {
					fmt.Fprintf(os.Stdout, "Error: %v\n", err)
					return 2
				}
				reg.Password = password
			}
			return runRegister(ctx, rt, os.Stdout, reg)
		})
	},
}

func init() {
	f := registerCmd.Flags()
	f.StringVar(&registration.Username, "username", "", "Username")
	f.BoolVar(&registerPwdStdin, "password-stdin", false, "Read the password from stdin")
	f.StringVar(&registration.Email, "email", "", "Email address")
	f.StringVar(&registration.FullName, "full-name", "", "Full name")
	f.StringVar(&registration.Phone, "phone", "", "Phone number (10 digits)")
	f.StringVar(&registration.Designation, "designation", "", "Designation")
	f.StringVar(&registration.Department, "department", "", "Department")
	f.StringVar(&registration.DateOfJoining, "date-of-joining", "", "Date of joining (YYYY-MM-DD)")
	f.Int64Var(&registration.CompanyID, "company-id", 0, "Company to join")
	f.BoolVar(&registerListOnly, "list-companies", false, "List companies open for registration and exit")
	rootCmd.AddCommand(registerCmd)
}

// runRegister validates and submits a registration
func runRegister(ctx context.Context, rt *runtime, w io.Writer, reg client.Registration) int {
	if err := validation.Check(&reg); err != nil {
		return reportError(w, err)
	}

	msg, err := rt.api.Auth.Register(ctx, reg)
	if err != nil {
		return reportError(w, err)
	}
	if msg == "" {
		msg = "Registration successful."
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]string{"message": msg}, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, msg)
	}
	return 0
}

// runPublicCompanies lists the companies shown on the registration form
func runPublicCompanies(ctx context.Context, rt *runtime, w io.Writer) int {
	companies, err := rt.api.Auth.PublicCompanies(ctx)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(companies, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatTable(present.Companies.Headers, present.Companies.Rows(companies), "No companies found."))
	}
	return 0
}
