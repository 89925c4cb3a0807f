/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/tempoflow-ai/tempoflow/internal/auth"
	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password, or with Google",
	Long: `Sign in to TempoFlow.

With --google a browser sign-in is started and the authorization code is
received on a loopback address. Google sign-in also grants calendar access
when ai.enableCalendarSync is on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, settings, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}

		var id auth.UserIdentity
		if loginGoogle {
			id, err = googleLogin(cmd.Context(), a.Store, settings)
		} else {
			var creds auth.Credentials
			creds, err = promptCredentials(false)
			if err != nil {
				return err
			}
			id, err = a.Auth.SignIn(cmd.Context(), creds)
		}
		if err != nil {
			return err
		}
		return printIdentity(id, "Signed in")
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an email and password account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		creds, err := promptCredentials(true)
		if err != nil {
			return err
		}
		id, err := a.Auth.SignUp(cmd.Context(), creds)
		if err != nil {
			return err
		}
		return printIdentity(id, "Account created")
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored Google token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.Auth.SignOut(cmd.Context()); err != nil {
			return err
		}
		if isJSON() {
			return printJSON(map[string]any{"signedIn": false})
		}
		if !isQuiet() {
			fmt.Println("Signed out.")
		}
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}
		s, err := a.Auth.Current(cmd.Context())
		if errors.Is(err, auth.ErrNotSignedIn) {
			if isJSON() {
				return printJSON(map[string]any{"signedIn": false})
			}
			fmt.Println("Not signed in. Run 'tempoflow login'.")
			return nil
		}
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(s)
		}
		fmt.Println(ui.RenderInfoPanel(displayName(s.Identity), fmt.Sprintf("%s via %s\n%s",
			s.Identity.Email, s.Identity.Provider,
			ui.StyleSubtle.Render("signed in "+s.SignedInAt.Local().Format("2006-01-02 15:04")))))
		return nil
	},
}

var (
	loginGoogle bool
	authEmail   string
	authName    string
)

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().BoolVar(&loginGoogle, "google", false, "sign in with Google in the browser")
	loginCmd.Flags().StringVarP(&authEmail, "email", "e", "", "account email")
	signupCmd.Flags().StringVarP(&authEmail, "email", "e", "", "account email")
	signupCmd.Flags().StringVar(&authName, "name", "", "display name")
}

// googleLogin runs the installed-app flow: print the consent URL, wait for
// the redirect on 127.0.0.1 and exchange the code.
func googleLogin(ctx context.Context, store interface {
	auth.UserStore
	auth.KV
}, settings config.Settings) (auth.UserIdentity, error) {
	google := config.LoadGoogleClient(viper.GetViper())
	if !google.Configured() {
		return auth.UserIdentity{}, &notConfiguredError{
			what: "Google sign-in",
			hint: "Set google.clientID and google.clientSecret in the config file or TEMPOFLOW_GOOGLE_CLIENTID/TEMPOFLOW_GOOGLE_CLIENTSECRET.",
		}
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return auth.UserIdentity{}, fmt.Errorf("open loopback listener: %w", err)
	}
	redirect := fmt.Sprintf("http://%s/callback", ln.Addr().String())

	tokens := auth.NewTokenStore(store)
	ga := newGoogleAuth(google, redirect, settings, store, tokens)
	router := auth.NewRouter(store, map[auth.Provider]auth.Authenticator{auth.ProviderGoogle: ga})

	state := uuid.NewString()
	fmt.Fprintln(os.Stderr, "Open this URL in your browser to sign in:")
	fmt.Fprintln(os.Stderr, "  "+ga.AuthCodeURL(state))

	waitCtx, cancel := context.WithTimeout(ctx, auth.LoopbackTimeout)
	defer cancel()
	code, err := auth.WaitForCode(waitCtx, ln, state)
	if err != nil {
		return auth.UserIdentity{}, err
	}
	return router.SignIn(ctx, auth.Credentials{Provider: auth.ProviderGoogle, AuthCode: code})
}

// promptCredentials reads the email from --email or stdin and the password
// without echo.
func promptCredentials(withName bool) (auth.Credentials, error) {
	reader := bufio.NewReader(os.Stdin)
	creds := auth.Credentials{Provider: auth.ProviderPassword, Email: authEmail, DisplayName: authName}

	if creds.Email == "" {
		fmt.Fprint(os.Stderr, "Email: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return creds, fmt.Errorf("read email: %w", err)
		}
		creds.Email = strings.TrimSpace(line)
	}
	if withName && creds.DisplayName == "" && isInteractive() {
		fmt.Fprint(os.Stderr, "Display name (optional): ")
		line, _ := reader.ReadString('\n')
		creds.DisplayName = strings.TrimSpace(line)
	}

	fmt.Fprint(os.Stderr, "Password: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return creds, fmt.Errorf("read password: %w", err)
		}
		creds.Password = string(pw)
		return creds, nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return creds, fmt.Errorf("read password: %w", err)
	}
	creds.Password = strings.TrimRight(line, "\r\n")
	return creds, nil
}

func printIdentity(id auth.UserIdentity, verb string) error {
	if isJSON() {
		return printJSON(id)
	}
	if !isQuiet() {
		fmt.Println(ui.StyleSuccess.Render(fmt.Sprintf("✓ %s as %s", verb, displayName(id))))
	}
	return nil
}

func displayName(id auth.UserIdentity) string {
	if id.DisplayName != "" {
		return id.DisplayName
	}
	return id.Email
}
