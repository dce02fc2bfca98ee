package driver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"

	apperrors "feedsync/utils/errors"
)

// authorizeTimeout bounds how long the loopback listener waits for the
// user to complete the consent flow in their browser.
const authorizeTimeout = 5 * time.Minute

// URLOpener opens a URL in the user's browser.
type URLOpener interface {
	Open(url string) error
}

// BrowserOpener opens URLs with the platform's default handler.
type BrowserOpener struct{}

func (BrowserOpener) Open(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

// LoopbackAuthorizer runs the OAuth2 authorization-code flow against an
// ephemeral listener on 127.0.0.1. It serves exactly one redirect,
// verifies the state parameter and hands back the code.
type LoopbackAuthorizer struct {
	domain   string
	clientID string
	opener   URLOpener
	logger   *slog.Logger
}

// NewLoopbackAuthorizer creates an interactive authorizer for the given
// API domain and OAuth2 client id.
func NewLoopbackAuthorizer(domain, clientID string, opener URLOpener, logger *slog.Logger) *LoopbackAuthorizer {
	if opener == nil {
		opener = BrowserOpener{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoopbackAuthorizer{
		domain:   domain,
		clientID: clientID,
		opener:   opener,
		logger:   logger,
	}
}

type authorizeResult struct {
	code string
	err  error
}

// Authorize opens the consent page and blocks until the redirect lands on
// the loopback listener, the context is cancelled or the hard timeout
// expires.
func (a *LoopbackAuthorizer) Authorize(ctx context.Context) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("%w: loopback listener: %v", apperrors.ErrAuth, err)
	}
	defer listener.Close()

	state := uuid.NewString()
	redirectURI := fmt.Sprintf("http://%s/", listener.Addr())

	results := make(chan authorizeResult, 1)
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			results <- authorizeResult{err: fmt.Errorf("%w: authorization redirect state mismatch", apperrors.ErrAuth)}
			return
		}
		code := query.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			results <- authorizeResult{err: fmt.Errorf("%w: authorization redirect carries no code", apperrors.ErrAuth)}
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body>Authorization complete. You can close this tab.</body></html>")
		results <- authorizeResult{code: code}
	})}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			results <- authorizeResult{err: fmt.Errorf("%w: loopback server: %v", apperrors.ErrAuth, err)}
		}
	}()
	defer server.Close()

	authURL := fmt.Sprintf("https://%s/oauth2/auth?%s", a.domain, url.Values{
		"client_id":     {a.clientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {"read write"},
		"state":         {state},
	}.Encode())

	a.logger.Info("waiting for interactive authorization", "listen", listener.Addr().String())
	if err := a.opener.Open(authURL); err != nil {
		a.logger.Warn("browser launch failed, open the URL manually", "url", authURL, "error", err)
	}

	timer := time.NewTimer(authorizeTimeout)
	defer timer.Stop()
	select {
	case result := <-results:
		return result.code, result.err
	case <-timer.C:
		return "", fmt.Errorf("%w: authorization timed out after %s", apperrors.ErrAuth, authorizeTimeout)
	case <-ctx.Done():
		return "", fmt.Errorf("%w: authorization cancelled: %v", apperrors.ErrAuth, ctx.Err())
	}
}
