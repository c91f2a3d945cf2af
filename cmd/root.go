// ABOUTME: Root command for the hrms CLI
// ABOUTME: Handles global flags, configuration, and wiring of the session and stores

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/config"
	"github.com/markalston/hrms-console/internal/gateway"
	"github.com/markalston/hrms-console/internal/logger"
	"github.com/markalston/hrms-console/internal/session"
	"github.com/markalston/hrms-console/internal/storage"
	"github.com/markalston/hrms-console/internal/store"
	"github.com/markalston/hrms-console/internal/tui/icons"
	"github.com/markalston/hrms-console/internal/validation"
	"github.com/spf13/cobra"
)

var (
	apiURL        string
	jsonOutput    bool
	configDir     string
	ephemeral     bool
	logLevel      string
	redirectDelay time.Duration
	httpTimeout   time.Duration
)

// envFile is read from the working directory when present
const envFile = ".env"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "hrms",
	Short: "Admin console for the HRMS backend",
	Long: `hrms is a terminal administration console for the Human Resource Management backend.

It manages companies, departments, employees, and attendance records, either
through scriptable subcommands or the interactive console (hrms tui).

Environment Variables:
  HRMS_API_URL         Backend API URL (default: http://localhost:8080)
  HRMS_CONFIG_DIR      Directory holding the saved session (default: ~/.config/hrms)
  HRMS_EPHEMERAL       Keep the session in memory only
  HRMS_REDIRECT_DELAY  Delay before returning to login after expiry (default: 2s)
  HRMS_NOTIFY_TIMEOUT  How long TUI notifications stay visible (default: 3s)
  HRMS_HTTP_TIMEOUT    Backend request timeout (default: 30s)
  LOG_LEVEL            debug, info, warn, error (default: info)
  LOG_FORMAT           text or json (default: text)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&apiURL, "api-url", "", "Backend API URL (overrides HRMS_API_URL)")
	flags.BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	flags.StringVar(&configDir, "config-dir", "", "Session directory (overrides HRMS_CONFIG_DIR)")
	flags.BoolVar(&ephemeral, "ephemeral", false, "Do not persist the session to disk")
	flags.StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	flags.DurationVar(&redirectDelay, "redirect-delay", 0, "Delay before returning to login after the session ends")
	flags.DurationVar(&httpTimeout, "http-timeout", 0, "Backend request timeout")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// runtime holds everything a command needs to talk to the backend
type runtime struct {
	cfg     *config.Config
	storage storage.Storage
	gateway *gateway.Client
	api     *client.Client
	session *session.Store
	stores  *store.Registry
}

// newRuntime loads configuration, restores any saved session, and wires the
// gateway, session store, and domain stores together. Logs and session
// notifications are written to errW.
func newRuntime(errW io.Writer) (*runtime, error) {
	cfg, err := config.Load(rootCmd.PersistentFlags(), envFile)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat, errW)

	var st storage.Storage
	if cfg.Ephemeral {
		st = storage.NewMemory()
	} else {
		st = storage.NewFile(cfg.ConfigDir)
	}

	gw := gateway.New(gateway.Options{
		BaseURL:       cfg.APIURL,
		HTTPClient:    &http.Client{Timeout: cfg.HTTPTimeout},
		Storage:       st,
		Notifier:      writerNotifier(errW),
		RedirectDelay: cfg.RedirectDelay,
	})
	api := client.New(gw)
	sess := session.New(api.Auth, st)
	gw.SetSession(sess)
	sess.Hydrate()

	return &runtime{
		cfg:     cfg,
		storage: st,
		gateway: gw,
		api:     api,
		session: sess,
		stores:  store.NewRegistry(api),
	}, nil
}

// execute builds the runtime, runs fn, and exits with its code
func execute(fn func(ctx context.Context, rt *runtime) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := newRuntime(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		os.Exit(2)
	}

	exitCode := fn(ctx, rt)
	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}

// writerNotifier prints gateway notifications one per line
func writerNotifier(w io.Writer) gateway.Notifier {
	return gateway.NotifierFunc(func(n gateway.Notification) {
		fmt.Fprintf(w, "%s %s\n", levelIcon(n.Level), n.Message)
	})
}

func levelIcon(l gateway.Level) string {
	switch l {
	case gateway.LevelSuccess:
		return icons.CheckOK.String()
	case gateway.LevelWarning:
		return icons.Warning.String()
	case gateway.LevelError:
		return icons.Critical.String()
	default:
		return icons.Info.String()
	}
}

// requireSession returns 1 and prints a hint when nobody is logged in
func requireSession(rt *runtime, w io.Writer) int {
	if rt.session.State() == session.Authenticated {
		return 0
	}
	fmt.Fprintln(w, "Not logged in. Run 'hrms login' to sign in.")
	return 1
}

// reportError prints err and returns the exit code for it:
// 1 when the user has to log in again, 2 for everything else.
func reportError(w io.Writer, err error) int {
	if se, ok := gateway.AsSessionError(err); ok {
		// The notifier has already shown se.Message
		fmt.Fprintf(w, "Error: session %s\nRun 'hrms login' to sign in again.\n", se.Reason)
		return 1
	}
	if session.IsAuthError(err) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fmt.Fprintf(w, "Error: %s\n", fe.Message)
		}
		return 2
	}
	fmt.Fprintf(w, "Error: %s\n", gateway.Message(err))
	return 2
}
