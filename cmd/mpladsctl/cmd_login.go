package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	gsheet "mplads/internal/sources/google"
)

func newSheetsLoginCmd(a *app) *cobra.Command {
	var (
		port    string
		out     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sheets-login",
		Short: "Authorize read access to Google Sheets with a user account",
		Long: `Run the OAuth installed-app flow and save a refreshable token. Point
GOOGLE_OAUTH_TOKEN_FILE at the saved file to use the sheets backend
without a service account.

The OAuth client comes from GOOGLE_OAUTH_CLIENT_JSON or
GOOGLE_OAUTH_CLIENT_FILE; http://localhost:<port>/callback must be an
authorized redirect URI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := gsheet.OAuthClientConfig()
			if err != nil {
				return err
			}
			if out == "" {
				out = os.Getenv(gsheet.EnvOAuthTokenFile)
			}
			if out == "" {
				out = gsheet.DefaultTokenFile
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			tok, err := gsheet.Login(ctx, cfg, port, func(authURL string) {
				a.printf("Open this URL to authorize:\n%s\n", authURL)
			})
			if err != nil {
				return err
			}
			if err := gsheet.SaveToken(out, tok); err != nil {
				return err
			}
			a.printf("Saved token to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", envOr("OAUTH_REDIRECT_PORT", "8085"), "Local port for the OAuth redirect")
	cmd.Flags().StringVar(&out, "out", "", "Token file (default: GOOGLE_OAUTH_TOKEN_FILE or token.json)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Give up waiting for authorization after this long")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
