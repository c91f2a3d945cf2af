// ABOUTME: Tests for the login, logout, whoami, register, and password commands
// ABOUTME: Runs each command against a fake HRMS backend

package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/session"
)

func TestRunLogin_Success(t *testing.T) {
	server := fakeBackend(t)
	rt := testRuntime(t, server.URL)

	var out bytes.Buffer
	code := runLogin(context.Background(), rt, &out, client.Credentials{Username: "alice", Password: "secret"})

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, out.String())
	}
	if !strings.Contains(out.String(), "Logged in as alice (ADMIN)") {
		t.Errorf("unexpected output %q", out.String())
	}
	if rt.session.State() != session.Authenticated {
		t.Error("expected an authenticated session")
	}
}

func TestRunLogin_Rejected(t *testing.T) {
	server := fakeBackend(t)
	rt := testRuntime(t, server.URL)

	var out bytes.Buffer
	code := runLogin(context.Background(), rt, &out, client.Credentials{Username: "alice", Password: "wrong"})

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "Invalid username or password") {
		t.Errorf("expected backend message, got %q", out.String())
	}
	if rt.session.State() == session.Authenticated {
		t.Error("expected no session after a rejected login")
	}
}

func TestRunLogin_MissingFields(t *testing.T) {
	rt := testRuntime(t, "http://localhost:8080")

	var out bytes.Buffer
	if code := runLogin(context.Background(), rt, &out, client.Credentials{}); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(out.String(), "Username is required") {
		t.Errorf("expected validation message, got %q", out.String())
	}
}

func TestRunLogin_JSON(t *testing.T) {
	server := fakeBackend(t)
	rt := testRuntime(t, server.URL)
	jsonOutput = true
	defer func() { jsonOutput = false }()

	var out bytes.Buffer
	if code := runLogin(context.Background(), rt, &out, client.Credentials{Username: "alice", Password: "secret"}); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), `"expiresAt"`) || !strings.Contains(out.String(), `"username": "alice"`) {
		t.Errorf("unexpected JSON %s", out.String())
	}
}

func TestRunLogout(t *testing.T) {
	server := fakeBackend(t)
	rt := loggedIn(t, server)

	var out bytes.Buffer
	if code := runLogout(rt, &out); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "Logged out.") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	if code := runLogout(rt, &out); code != 0 {
		t.Errorf("second logout should succeed, got %d", code)
	}
	if !strings.Contains(out.String(), "Not logged in.") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunWhoami(t *testing.T) {
	server := fakeBackend(t)
	rt := loggedIn(t, server)

	var out bytes.Buffer
	if code := runWhoami(rt, &out); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "alice") || !strings.Contains(out.String(), "Session expires") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunWhoami_NotLoggedIn(t *testing.T) {
	rt := testRuntime(t, "http://localhost:8080")

	var out bytes.Buffer
	if code := runWhoami(rt, &out); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestRunRegister(t *testing.T) {
	server := fakeBackend(t)
	rt := testRuntime(t, server.URL)

	reg := client.Registration{
		Username:      "bob",
		Password:      "pw",
		Email:         "bob@acme.test",
		FullName:      "Bob Builder",
		Phone:         "5551234567",
		Designation:   "Engineer",
		Department:    "Ops",
		DateOfJoining: "2024-01-15",
		CompanyID:     1,
	}

	var out bytes.Buffer
	if code := runRegister(context.Background(), rt, &out, reg); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, out.String())
	}
	if !strings.Contains(out.String(), "User registered successfully") {
		t.Errorf("expected backend message, got %q", out.String())
	}
}

func TestRunRegister_Invalid(t *testing.T) {
	rt := testRuntime(t, "http://localhost:8080")

	var out bytes.Buffer
	code := runRegister(context.Background(), rt, &out, client.Registration{Username: "bob", Email: "not-an-email"})

	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(out.String(), "Password is required.") {
		t.Errorf("expected every field error, got %q", out.String())
	}
}

func TestRunPassword_WrongOldPassword(t *testing.T) {
	server := fakeBackend(t)
	rt := loggedIn(t, server)

	var out bytes.Buffer
	code := runPassword(context.Background(), rt, &out, client.PasswordChange{
		OldPassword: "nope", NewPassword: "new", ConfirmPassword: "new",
	})

	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(out.String(), "Old password is incorrect") {
		t.Errorf("expected backend message, got %q", out.String())
	}
	if rt.session.State() != session.Authenticated {
		t.Error("a failed change should keep the session")
	}
}

func TestRunPassword_Mismatch(t *testing.T) {
	server := fakeBackend(t)
	rt := loggedIn(t, server)

	var out bytes.Buffer
	code := runPassword(context.Background(), rt, &out, client.PasswordChange{
		OldPassword: "secret", NewPassword: "new", ConfirmPassword: "other",
	})

	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(out.String(), "do not match") {
		t.Errorf("expected mismatch message, got %q", out.String())
	}
}

func TestRunPassword_LogsOut(t *testing.T) {
	server := fakeBackend(t)
	rt := loggedIn(t, server)

	var out bytes.Buffer
	code := runPassword(context.Background(), rt, &out, client.PasswordChange{
		OldPassword: "secret", NewPassword: "new", ConfirmPassword: "new",
	})

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, out.String())
	}
	if !strings.Contains(out.String(), "Please log in again") {
		t.Errorf("unexpected output %q", out.String())
	}
	if rt.session.State() == session.Authenticated {
		t.Error("expected the session to end after a password change")
	}
}

func TestReadPasswordChange(t *testing.T) {
	change, err := readPasswordChange(strings.NewReader("old\nnew\nnew\n"))
	if err != nil {
		t.Fatal(err)
	}
	if change.OldPassword != "old" || change.NewPassword != "new" || change.ConfirmPassword != "new" {
		t.Errorf("unexpected change %+v", change)
	}

	short, err := readPasswordChange(strings.NewReader("old\n"))
	if err != nil {
		t.Fatal(err)
	}
	if short.NewPassword != "" || short.ConfirmPassword != "" {
		t.Errorf("missing lines should be blank, got %+v", short)
	}
}
