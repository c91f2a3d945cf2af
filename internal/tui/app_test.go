// ABOUTME: Integration tests for TUI app
// ABOUTME: Tests component wiring, state transitions, and session redirects

package tui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/gateway"
	"github.com/markalston/hrms-console/internal/session"
	"github.com/markalston/hrms-console/internal/storage"
	"github.com/markalston/hrms-console/internal/store"
	"github.com/markalston/hrms-console/internal/token/tokentest"
	"github.com/markalston/hrms-console/internal/tui/menu"
	"github.com/markalston/hrms-console/internal/validation"
)

// backend serves canned lists and a login endpoint
func backend(t *testing.T) *httptest.Server {
	t.Helper()
	tok := tokentest.Valid(t, "alice")
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds client.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid username or password"))
			return
		}
		json.NewEncoder(w).Encode(client.LoginResponse{Token: tok, User: client.User{ID: 1, Username: creds.Username, CompanyID: 1}})
	})
	mux.HandleFunc("GET /api/companies", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Acme","status":"Active"},{"id":2,"name":"Globex","status":"Inactive"}]`))
	})
	for _, p := range []string{client.PathDepartments, client.PathEmployees, client.PathAttendance} {
		mux.HandleFunc("GET "+p, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// newTestApp builds an App against server. A logged-in session is stored
// first when loggedIn is set.
func newTestApp(t *testing.T, server *httptest.Server, loggedIn bool) *App {
	t.Helper()
	st := storage.NewMemory()
	if loggedIn {
		user, _ := json.Marshal(client.User{ID: 1, Username: "alice", FullName: "Alice Admin", CompanyID: 1})
		if err := st.SetAll(map[string]string{
			storage.TokenKey: tokentest.Valid(t, "alice"),
			storage.UserKey:  string(user),
		}); err != nil {
			t.Fatal(err)
		}
	}
	gw := gateway.New(gateway.Options{BaseURL: server.URL, Storage: st})
	api := client.New(gw)
	sess := session.New(api.Auth, st)
	gw.SetSession(sess)
	sess.Hydrate()

	app := New(Options{
		Session: sess,
		API:     api,
		Stores:  store.NewRegistry(api),
		Gateway: gw,
		APIURL:  server.URL,
	})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

func toastText(a *App) string {
	msgs := make([]string, len(a.toasts))
	for i, t := range a.toasts {
		msgs[i] = t.message
	}
	return strings.Join(msgs, "\n")
}

func TestScreenConstants(t *testing.T) {
	if ScreenLogin != 0 {
		t.Errorf("expected ScreenLogin to be 0, got %d", ScreenLogin)
	}
	if ScreenMenu != 1 {
		t.Errorf("expected ScreenMenu to be 1, got %d", ScreenMenu)
	}
	if ScreenDashboard != 2 {
		t.Errorf("expected ScreenDashboard to be 2, got %d", ScreenDashboard)
	}
}

func TestAppInitialState_Anonymous(t *testing.T) {
	app := newTestApp(t, backend(t), false)

	if app.screen != ScreenLogin {
		t.Errorf("expected initial screen to be ScreenLogin, got %d", app.screen)
	}
	if app.form == nil || app.editor == nil {
		t.Error("expected login form to be initialized")
	}
	if !strings.Contains(app.View(), "Sign in") {
		t.Error("expected login view to contain 'Sign in'")
	}
}

func TestAppInitialState_RestoredSession(t *testing.T) {
	app := newTestApp(t, backend(t), true)

	if app.screen != ScreenDashboard {
		t.Errorf("expected restored session to open the dashboard, got %d", app.screen)
	}
	if app.form != nil {
		t.Error("expected no form on the dashboard")
	}
}

func TestLogin_Success(t *testing.T) {
	app := newTestApp(t, backend(t), false)
	ed := app.editor

	if _, err := app.session.Login(context.Background(), client.Credentials{Username: "alice", Password: "secret"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	app.Update(submittedMsg{ed: ed})

	if app.session.State() != session.Authenticated {
		t.Error("expected session to be authenticated")
	}
	if app.screen != ScreenDashboard {
		t.Errorf("expected dashboard after login, got %d", app.screen)
	}
	if app.editor != nil {
		t.Error("expected editor to be closed")
	}
}

func TestLogin_ValidationErrorsKeepForm(t *testing.T) {
	app := newTestApp(t, backend(t), false)

	// Nothing has been typed yet
	_, err := app.editor.submit(context.Background())
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}

	app.Update(submittedMsg{ed: app.editor, err: err})

	if app.screen != ScreenLogin {
		t.Errorf("expected to stay on login, got %d", app.screen)
	}
	if len(app.formErrs) != len(verrs) {
		t.Errorf("expected %d field errors, got %v", len(verrs), app.formErrs)
	}
	if !strings.Contains(toastText(app), "Please fix the errors in the form.") {
		t.Errorf("expected form error toast, got %q", toastText(app))
	}
}

func TestLogin_Rejected(t *testing.T) {
	app := newTestApp(t, backend(t), false)

	_, err := app.session.Login(context.Background(), client.Credentials{Username: "alice", Password: "wrong"})
	if err == nil {
		t.Fatal("expected login to fail")
	}
	app.Update(submittedMsg{ed: app.editor, err: err})

	if app.screen != ScreenLogin {
		t.Errorf("expected to stay on login, got %d", app.screen)
	}
	if !strings.Contains(toastText(app), "Invalid username or password") {
		t.Errorf("expected backend message in toast, got %q", toastText(app))
	}
}

func TestMenuSelectionOpensList(t *testing.T) {
	app := newTestApp(t, backend(t), true)

	app.Update(menu.SelectedMsg{Item: menu.ItemCompanies})

	if app.screen != ScreenList {
		t.Fatalf("expected ScreenList, got %d", app.screen)
	}
	if app.current == nil || app.current.Title() != "Companies" {
		t.Fatalf("expected companies resource, got %v", app.current)
	}
	if _, err := app.stores.Companies.FetchAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	app.Update(fetchedMsg{res: app.current})

	if got := len(app.table.Rows()); got != 2 {
		t.Errorf("expected 2 rows, got %d", got)
	}
	view := app.View()
	for _, want := range []string{"Acme", "Globex", "Enter View"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected list view to contain %q", want)
		}
	}
}

func TestMenuFocusToggle(t *testing.T) {
	app := newTestApp(t, backend(t), true)

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if app.screen != ScreenMenu {
		t.Fatalf("expected tab to focus the menu, got %d", app.screen)
	}
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if app.screen != ScreenDashboard {
		t.Errorf("expected esc to return to the dashboard, got %d", app.screen)
	}
}

func TestSessionErrorRedirectsToLogin(t *testing.T) {
	app := newTestApp(t, backend(t), true)
	app.Update(menu.SelectedMsg{Item: menu.ItemCompanies})
	app.stores.Companies.FetchAll(context.Background())

	se := &gateway.SessionError{Reason: gateway.ReasonExpired, Message: "Session expired. Please log in again."}
	_, cmd := app.Update(fetchedMsg{res: app.current, err: se})
	if cmd == nil {
		t.Fatal("expected a redirect command")
	}
	if !app.redirecting {
		t.Error("expected redirect to be pending")
	}

	app.Update(cmd())

	if app.screen != ScreenLogin {
		t.Errorf("expected login screen after redirect, got %d", app.screen)
	}
	if app.stores.Companies.Len() != 0 {
		t.Error("expected stores to be cleared")
	}
	if app.session.State() != session.Anonymous {
		t.Error("expected session to be anonymous")
	}
}

func TestSubmitFailedShowsToast(t *testing.T) {
	app := newTestApp(t, backend(t), true)
	app.Update(menu.SelectedMsg{Item: menu.ItemCompanies})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if app.screen != ScreenForm {
		t.Fatalf("expected form screen, got %d", app.screen)
	}

	app.Update(submittedMsg{ed: app.editor, err: &gateway.APIError{StatusCode: 409, Message: "Email already exists"}})

	if app.screen != ScreenForm {
		t.Errorf("expected to stay on the form, got %d", app.screen)
	}
	if want := "Failed to create company: Email already exists"; !strings.Contains(toastText(app), want) {
		t.Errorf("expected %q, got %q", want, toastText(app))
	}
}

func TestSubmitSuccessReturnsToList(t *testing.T) {
	app := newTestApp(t, backend(t), true)
	app.Update(menu.SelectedMsg{Item: menu.ItemCompanies})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	app.Update(submittedMsg{ed: app.editor, msg: "Company created successfully!"})

	if app.screen != ScreenList {
		t.Errorf("expected list after save, got %d", app.screen)
	}
	if !strings.Contains(toastText(app), "Company created successfully!") {
		t.Errorf("expected success toast, got %q", toastText(app))
	}
}

func TestFormEscCancels(t *testing.T) {
	app := newTestApp(t, backend(t), true)
	app.Update(menu.SelectedMsg{Item: menu.ItemCompanies})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if app.screen != ScreenList || app.form != nil {
		t.Errorf("expected esc to close the form, screen %d", app.screen)
	}
}

func TestStaleSubmitIgnored(t *testing.T) {
	app := newTestApp(t, backend(t), true)
	app.Update(menu.SelectedMsg{Item: menu.ItemCompanies})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	ed := app.editor
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	app.Update(submittedMsg{ed: ed, msg: "Company created successfully!"})

	if len(app.toasts) != 0 {
		t.Errorf("expected no toast for a closed editor, got %q", toastText(app))
	}
}

func TestDeleteConfirmCancel(t *testing.T) {
	app := newTestApp(t, backend(t), true)
	app.Update(menu.SelectedMsg{Item: menu.ItemCompanies})
	app.stores.Companies.FetchAll(context.Background())
	app.Update(fetchedMsg{res: app.current})

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if app.screen != ScreenConfirm {
		t.Fatalf("expected confirm screen, got %d", app.screen)
	}
	if app.confirmID != 1 {
		t.Errorf("expected first row to be targeted, got %d", app.confirmID)
	}
	if !strings.Contains(app.View(), "Delete Company #1?") {
		t.Error("expected confirmation question in view")
	}

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if app.screen != ScreenList {
		t.Errorf("expected list after cancel, got %d", app.screen)
	}
}

func TestDeletedMsg(t *testing.T) {
	app := newTestApp(t, backend(t), true)
	app.Update(menu.SelectedMsg{Item: menu.ItemEmployees})

	app.Update(deletedMsg{res: app.current})
	if !strings.Contains(toastText(app), "Employee deleted successfully") {
		t.Errorf("expected delete toast, got %q", toastText(app))
	}

	app.Update(deletedMsg{res: app.current, err: &gateway.APIError{StatusCode: 500}})
	if !strings.Contains(toastText(app), "Failed to delete employee") {
		t.Errorf("expected delete failure toast, got %q", toastText(app))
	}
}

func TestDetailMsg(t *testing.T) {
	app := newTestApp(t, backend(t), true)
	app.Update(menu.SelectedMsg{Item: menu.ItemCompanies})
	app.openDetail(1)

	fields, status, err := app.current.Detail(context.Background(), 1)
	if err == nil {
		t.Fatal("expected the canned backend to have no single-company route")
	}
	app.Update(detailMsg{id: 1, fields: fields, status: status, err: err})
	if !strings.Contains(app.detailErr, "Failed to load company") {
		t.Errorf("expected load failure, got %q", app.detailErr)
	}

	app.openDetail(1)
	app.Update(detailMsg{id: 1, status: "Active", fields: nil})
	if app.detailErr != "" {
		t.Errorf("expected error to be cleared, got %q", app.detailErr)
	}

	// Replies for another record are dropped
	app.Update(detailMsg{id: 7, err: errors.New("boom")})
	if app.detailErr != "" {
		t.Errorf("expected stale reply to be ignored, got %q", app.detailErr)
	}
}

func TestNotifyAndExpire(t *testing.T) {
	app := newTestApp(t, backend(t), true)

	app.Update(notifyMsg{Level: gateway.LevelError, Message: "Session expired. Please log in again."})
	if !strings.Contains(app.View(), "Session expired") {
		t.Error("expected toast in view")
	}

	app.Update(toastExpiredMsg{id: app.toasts[0].id})
	if len(app.toasts) != 0 {
		t.Errorf("expected toast to expire, got %d", len(app.toasts))
	}
}

func TestToastLimit(t *testing.T) {
	app := newTestApp(t, backend(t), true)
	for _, m := range []string{"one", "two", "three", "four"} {
		app.notify(gateway.LevelInfo, m)
	}

	if len(app.toasts) != maxToasts {
		t.Fatalf("expected %d toasts, got %d", maxToasts, len(app.toasts))
	}
	if app.toasts[0].message != "two" {
		t.Errorf("expected oldest toast dropped, got %q", app.toasts[0].message)
	}
}

func TestPasswordChangeLogsOut(t *testing.T) {
	app := newTestApp(t, backend(t), true)
	app.Update(menu.SelectedMsg{Item: menu.ItemPassword})
	if app.screen != ScreenForm {
		t.Fatalf("expected password form, got %d", app.screen)
	}

	app.Update(submittedMsg{ed: app.editor, msg: "Password changed successfully."})
	if app.screen != ScreenProfile {
		t.Errorf("expected profile while logout is pending, got %d", app.screen)
	}

	app.Update(logoutMsg{})
	if app.screen != ScreenLogin {
		t.Errorf("expected login after logout, got %d", app.screen)
	}
	if app.session.State() != session.Anonymous {
		t.Error("expected session to end")
	}
	if !strings.Contains(toastText(app), "Please log in again with your new password.") {
		t.Errorf("expected relogin toast, got %q", toastText(app))
	}
}

func TestMenuLogout(t *testing.T) {
	app := newTestApp(t, backend(t), true)

	app.Update(menu.SelectedMsg{Item: menu.ItemLogout})

	if app.screen != ScreenLogin {
		t.Errorf("expected login screen, got %d", app.screen)
	}
	if app.session.State() != session.Anonymous {
		t.Error("expected session to end")
	}
}

func TestProfileView(t *testing.T) {
	app := newTestApp(t, backend(t), true)
	app.Update(menu.SelectedMsg{Item: menu.ItemProfile})

	view := app.View()
	for _, want := range []string{"Profile", "alice", "Session expires", "Change password"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected profile view to contain %q", want)
		}
	}
}

func TestZeroTimingsUseDefaults(t *testing.T) {
	app := newTestApp(t, backend(t), false)

	if app.redirectDelay != DefaultRedirectDelay {
		t.Errorf("expected redirect delay %s, got %s", DefaultRedirectDelay, app.redirectDelay)
	}
	if app.notifyTimeout != DefaultNotifyTimeout {
		t.Errorf("expected notify timeout %s, got %s", DefaultNotifyTimeout, app.notifyTimeout)
	}
}
