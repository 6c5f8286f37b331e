package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	gsheet "google.golang.org/api/sheets/v4"
)

// Environment variables for user OAuth, the alternative to a service
// account for spreadsheets shared only with a personal account.
const (
	EnvOAuthClientJSON = "GOOGLE_OAUTH_CLIENT_JSON"
	EnvOAuthClientFile = "GOOGLE_OAUTH_CLIENT_FILE"
	EnvOAuthTokenFile  = "GOOGLE_OAUTH_TOKEN_FILE"

	DefaultTokenFile = "token.json"
)

// OAuthClientConfig reads the OAuth client from GOOGLE_OAUTH_CLIENT_JSON or
// GOOGLE_OAUTH_CLIENT_FILE and scopes it to read-only spreadsheet access.
func OAuthClientConfig() (*oauth2.Config, error) {
	var b []byte
	switch {
	case strings.TrimSpace(os.Getenv(EnvOAuthClientJSON)) != "":
		b = []byte(os.Getenv(EnvOAuthClientJSON))
	case strings.TrimSpace(os.Getenv(EnvOAuthClientFile)) != "":
		var err error
		b, err = os.ReadFile(strings.TrimSpace(os.Getenv(EnvOAuthClientFile)))
		if err != nil {
			return nil, fmt.Errorf("read client file: %w", err)
		}
	default:
		return nil, fmt.Errorf("set %s or %s", EnvOAuthClientJSON, EnvOAuthClientFile)
	}
	cfg, err := goauth.ConfigFromJSON(b, gsheet.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	return cfg, nil
}

// LoadToken reads a token saved by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var tok oauth2.Token
	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", path, err)
	}
	return &tok, nil
}

// SaveToken writes tok to path readable only by the owner.
func SaveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		f.Close()
		return fmt.Errorf("write token: %w", err)
	}
	return f.Close()
}

// Login runs the installed-app authorization flow. It listens on
// localhost:port for the redirect (port "0" picks a free one), hands the
// consent URL to prompt and exchanges the returned code for a token.
// The redirect URI must be registered on the OAuth client.
func Login(ctx context.Context, cfg *oauth2.Config, port string, prompt func(authURL string)) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort("localhost", port))
	if err != nil {
		return nil, fmt.Errorf("listen for redirect: %w", err)
	}

	c := *cfg
	c.RedirectURL = "http://localhost:" + strconv.Itoa(ln.Addr().(*net.TCPAddr).Port) + "/callback"
	state := uuid.NewString()

	type result struct {
		code string
		err  error
	}
	results := make(chan result, 1)
	send := func(r result) {
		select {
		case results <- r:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("error") != "":
			http.Error(w, "OAuth error: "+q.Get("error"), http.StatusBadRequest)
			send(result{err: fmt.Errorf("authorization denied: %s", q.Get("error"))})
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
		default:
			fmt.Fprintln(w, "You may close this window and return to the terminal.")
			send(result{code: q.Get("code")})
		}
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	prompt(c.AuthCodeURL(state, oauth2.AccessTypeOffline))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-results:
		if r.err != nil {
			return nil, r.err
		}
		if r.code == "" {
			return nil, errors.New("authorization returned no code")
		}
		tok, err := c.Exchange(ctx, r.code)
		if err != nil {
			return nil, fmt.Errorf("token exchange: %w", err)
		}
		return tok, nil
	}
}

// userTokenSource returns a refreshing token source when
// GOOGLE_OAUTH_TOKEN_FILE is set, or nil otherwise.
func userTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	path := strings.TrimSpace(os.Getenv(EnvOAuthTokenFile))
	if path == "" {
		return nil, nil
	}
	cfg, err := OAuthClientConfig()
	if err != nil {
		return nil, err
	}
	tok, err := LoadToken(path)
	if err != nil {
		return nil, fmt.Errorf("load oauth token: %w", err)
	}
	return cfg.TokenSource(context.WithoutCancel(ctx), tok), nil
}
