/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/tempoflow-ai/tempoflow/internal/app"
	"github.com/tempoflow-ai/tempoflow/internal/auth"
	"github.com/tempoflow-ai/tempoflow/internal/calendar"
	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/memory"
	"github.com/tempoflow-ai/tempoflow/internal/telemetry"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isQuiet() bool {
	return viper.GetBool("quiet")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func confirmOrAbort(prompt string) bool {
	if isJSON() {
		return true
	}
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		fmt.Println("Cancelled.")
		return false
	}
	return true
}

// notConfiguredError tells the user which setting a command needs.
type notConfiguredError struct {
	what string
	hint string
}

func (e *notConfiguredError) Error() string {
	return fmt.Sprintf("%s is not configured. %s", e.what, e.hint)
}

// current is the app context shared by the running command. It is opened
// lazily so help and completion never touch the database.
var current *app.Context

// openApp opens the data store and wires the services for this run.
func openApp(ctx context.Context, settings config.Settings) (*app.Context, error) {
	if current != nil {
		return current, nil
	}

	store, err := memory.NewSQLiteStore(config.DataDir())
	if err != nil {
		return nil, fmt.Errorf("open data store: %w", err)
	}

	opts := []app.Option{app.WithTracker(newTracker())}
	if google := config.LoadGoogleClient(viper.GetViper()); google.Configured() {
		tokens := auth.NewTokenStore(store)
		opts = append(opts, app.WithGoogle(newGoogleAuth(google, dashboardRedirectURL(), settings, store, tokens)))
		if settings.AI.EnableCalendarSync {
			if syncer := newCalendarSyncer(ctx, google, settings, store, tokens); syncer != nil {
				opts = append(opts, app.WithCalendar(syncer))
			}
		}
	}

	current = app.NewContext(store, opts...)
	return current, nil
}

// closeApp flushes telemetry and closes the store.
func closeApp() {
	if current == nil {
		return
	}
	if err := current.Tracker.Close(); err != nil {
		LogError("flush telemetry", err)
	}
	if err := current.Store.Close(); err != nil {
		LogError("close data store", err)
	}
	current = nil
}

// openAppWithSettings loads settings and opens the app in one step.
func openAppWithSettings(ctx context.Context) (*app.Context, config.Settings, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, config.Settings{}, err
	}
	a, err := openApp(ctx, settings)
	if err != nil {
		return nil, config.Settings{}, err
	}
	return a, settings, nil
}

func newTracker() telemetry.Client {
	if os.Getenv(telemetry.EnvDisable) != "" {
		return telemetry.NewNoopClient()
	}
	cfg, err := telemetry.Load()
	if err != nil {
		LogError("load telemetry config", err)
		return telemetry.NewNoopClient()
	}
	client, err := telemetry.New(telemetry.ClientConfig{
		APIKey:  posthogKey,
		Version: version,
		Config:  cfg,
	})
	if err != nil {
		LogError("start telemetry", err)
		return telemetry.NewNoopClient()
	}
	return client
}

func newGoogleAuth(google config.GoogleClient, redirect string, settings config.Settings, users auth.UserStore, tokens *auth.TokenStore) *auth.GoogleAuthenticator {
	cfg := auth.GoogleConfig{
		ClientID:     google.ClientID,
		ClientSecret: google.ClientSecret,
		RedirectURL:  redirect,
	}
	if settings.AI.EnableCalendarSync {
		cfg.ExtraScopes = calendar.Scopes
	}
	return auth.NewGoogleAuthenticator(cfg, users, auth.WithTokenHandler(tokens.Handler()))
}

// newCalendarSyncer returns nil when no Google token has been stored yet.
func newCalendarSyncer(ctx context.Context, google config.GoogleClient, settings config.Settings, users auth.UserStore, tokens *auth.TokenStore) *calendar.Syncer {
	tok, err := tokens.Load(ctx)
	if err != nil {
		slog.Debug("calendar sync disabled", "reason", err)
		return nil
	}
	oauth := newGoogleAuth(google, "", settings, users, tokens).OAuthConfig()
	srv, err := calendar.NewService(ctx, oauth.Client(context.Background(), tok))
	if err != nil {
		slog.Warn("calendar sync disabled", "error", err)
		return nil
	}
	return calendar.NewSyncer(srv, viper.GetString("google.calendarID"))
}

// dashboardRedirectURL is the redirect the web dashboard used when it
// obtained an authorization code. "postmessage" matches Google's JS popup flow.
func dashboardRedirectURL() string {
	if u := viper.GetString("google.redirectURL"); u != "" {
		return u
	}
	return "postmessage"
}
