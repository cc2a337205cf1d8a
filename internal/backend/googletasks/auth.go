package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"gtasksync/internal/config"
)

const (
	callbackTimeout = 5 * time.Minute
	exchangeTimeout = 30 * time.Second

	// Loopback ports tried in order for the OAuth redirect.
	callbackStartPort   = 8085
	callbackMaxAttempts = 5
)

// ErrNoRefreshToken is returned for a stored token that cannot be renewed.
var ErrNoRefreshToken = errors.New("token has no refresh token")

// OAuthConfig reads oauth_client.json from the config directory.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, TasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// LoadToken reads a token written by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	return &token, nil
}

// SaveToken writes token to path with mode 0600.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// CheckToken reports whether the stored token still yields an access
// token, refreshing it if needed.
func CheckToken(ctx context.Context, cfg *config.Config) error {
	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return err
	}
	if token.RefreshToken == "" {
		return ErrNoRefreshToken
	}
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	_, err = oauthConfig.TokenSource(ctx, token).Token()
	return err
}

// Authorize runs the installed-app flow: it prints the consent URL to
// prompt, waits for the loopback redirect and exchanges the code.
func Authorize(ctx context.Context, oauthConfig *oauth2.Config, prompt io.Writer) (*oauth2.Token, error) {
	port, listener, err := listenLoopback()
	if err != nil {
		return nil, err
	}
	defer listener.Close()

	conf := *oauthConfig
	conf.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(prompt, "Open this URL in your browser:")
	fmt.Fprintln(prompt, authURL)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.Handle("/callback", CallbackHandler(state, codeCh, errCh))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errCh, err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-time.After(callbackTimeout):
		return nil, errors.New("oauth callback timed out")
	case <-ctx.Done():
		return nil, errors.New("cancelled")
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	token, err := conf.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return token, nil
}

// CallbackHandler accepts one redirect carrying state and forwards its
// authorization code.
func CallbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			sendErr(errCh, errors.New("oauth state mismatch"))
			return
		}
		if reason := q.Get("error"); reason != "" {
			http.Error(w, "Authorization denied", http.StatusForbidden)
			sendErr(errCh, fmt.Errorf("authorization denied: %s", reason))
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			sendErr(errCh, errors.New("no code in callback"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Authentication successful</h1><p>You may close this window.</p></body></html>")
		select {
		case codeCh <- code:
		default:
		}
	})
}

func sendErr(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
	}
}

func listenLoopback() (int, net.Listener, error) {
	for i := 0; i < callbackMaxAttempts; i++ {
		port := callbackStartPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, errors.New("could not bind to local port for OAuth callback")
}
