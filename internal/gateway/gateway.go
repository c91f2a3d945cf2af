// ABOUTME: Single chokepoint for outbound calls to the HRMS backend
// ABOUTME: Checks the stored token before sending and ends the session on 401

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/markalston/hrms-console/internal/storage"
	"github.com/markalston/hrms-console/internal/token"
	"github.com/tidwall/gjson"
)

// Default timings
const (
	DefaultRedirectDelay = 2 * time.Second
	DefaultTimeout       = 30 * time.Second
)

// User-visible messages for the session recovery path
const (
	msgSessionExpired = "Session expired. Please log in again."
	msgSessionInvalid = "Invalid Session. Please log in again."
)

// maxMessageLen bounds plain-text error bodies surfaced to the user
const maxMessageLen = 512

// SessionEnder is the part of the session store the gateway needs
type SessionEnder interface {
	Logout() error
}

// Options configures a Client
type Options struct {
	BaseURL       string
	HTTPClient    *http.Client
	Storage       storage.Storage
	Session       SessionEnder
	Notifier      Notifier
	// RedirectDelay follows a local session rejection; zero means
	// DefaultRedirectDelay
	RedirectDelay time.Duration
	Now           func() time.Time
}

// Client attaches the bearer token to every request and enforces the
// authorization contract so resource clients never handle tokens.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	storage       storage.Storage
	session       SessionEnder
	notifier      Notifier
	redirectDelay time.Duration
	now           func() time.Time
}

// New creates a gateway client
func New(opts Options) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		httpClient:    opts.HTTPClient,
		storage:       opts.Storage,
		session:       opts.Session,
		notifier:      opts.Notifier,
		redirectDelay: opts.RedirectDelay,
		now:           opts.Now,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.storage == nil {
		c.storage = storage.NewMemory()
	}
	if c.notifier == nil {
		c.notifier = discardNotifier{}
	}
	if c.redirectDelay <= 0 {
		c.redirectDelay = DefaultRedirectDelay
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetSession attaches the session store after construction.
// The session store and its authenticator both depend on the gateway.
func (c *Client) SetSession(s SessionEnder) {
	c.session = s
}

// SetNotifier replaces the notifier
func (c *Client) SetNotifier(n Notifier) {
	if n == nil {
		n = discardNotifier{}
	}
	c.notifier = n
}

// Do sends an authorized request. body is JSON-encoded when non-nil; the
// response is decoded into out (a *string receives the raw text body).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return c.endSession(ReasonUnauthorized, nil)
	}
	return c.decode(resp, out)
}

// DoPublic sends a request without the authorization checks. Used for the
// login and registration endpoints where a 401 means bad credentials.
func (c *Client) DoPublic(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decode(resp, out)
}

// authorize is the request phase: the token is read from storage rather than
// memory so a session ended by another process is honored.
func (c *Client) authorize(req *http.Request) error {
	raw, ok, err := c.storage.Get(storage.TokenKey)
	if err != nil {
		return fmt.Errorf("failed to read session storage: %w", err)
	}
	if !ok || raw == "" {
		return nil
	}

	if _, err := token.Check(raw, c.now()); err != nil {
		if token.IsInvalid(err) {
			return c.endSession(ReasonInvalid, err)
		}
		return c.endSession(ReasonExpired, err)
	}

	req.Header.Set("Authorization", "Bearer "+raw)
	return nil
}

// endSession is the shared recovery path for both the preemptive and the
// reactive check: log out, notify, and tell the caller where to go.
func (c *Client) endSession(reason Reason, cause error) *SessionError {
	if c.session != nil {
		if err := c.session.Logout(); err != nil {
			slog.Error("Failed to clear session", "reason", reason.String(), "error", err)
		}
	}

	se := &SessionError{Reason: reason, Message: msgSessionExpired, Err: cause}
	switch reason {
	case ReasonInvalid:
		se.Message = msgSessionInvalid
		se.RedirectAfter = c.redirectDelay
	case ReasonExpired:
		se.RedirectAfter = c.redirectDelay
	case ReasonUnauthorized:
		se.RedirectAfter = 0
	}

	slog.Info("Session ended", "reason", reason.String())
	c.notifier.Notify(Notification{Level: LevelError, Message: se.Message})
	return se
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal input: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	slog.Debug("Gateway request",
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", req.Header.Get("X-Request-ID"),
		"authorized", req.Header.Get("Authorization") != "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}

	slog.Debug("Gateway response",
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get("X-Request-ID"))
	return resp, nil
}

// handleRequestError converts context and timeout errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &TransportError{Message: "request canceled"}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Message: "request timed out"}
	}
	// http.Client.Timeout surfaces as a net.Error, not through ctx
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{Message: "request timed out"}
	}
	return &TransportError{Message: "cannot connect to backend at " + c.baseURL, Err: err}
}

func (c *Client) decode(resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}

	switch v := out.(type) {
	case nil:
		return nil
	case *string:
		*v = textBody(data)
		return nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// errorMessage prefers the body's message field, then error, then the
// plain-text body.
func errorMessage(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		for _, field := range []string{"message", "error"} {
			if m := parsed.Get(field); m.Exists() && m.String() != "" {
				return m.String()
			}
		}
		if parsed.Type == gjson.String && parsed.String() != "" {
			return parsed.String()
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= maxMessageLen {
		return text
	}
	return fmt.Sprintf("backend returned status %d", status)
}

// textBody returns a string body, unquoting it when the backend sent JSON
func textBody(body []byte) string {
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		if parsed.Type == gjson.String {
			return parsed.String()
		}
		if m := parsed.Get("message"); m.Exists() {
			return m.String()
		}
	}
	return strings.TrimSpace(string(body))
}
