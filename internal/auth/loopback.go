package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// LoopbackTimeout bounds how long WaitForCode waits for the browser redirect.
const LoopbackTimeout = 5 * time.Minute

// WaitForCode serves a one-shot redirect handler on ln and returns the
// authorization code Google appends to it. The state parameter must match.
func WaitForCode(ctx context.Context, ln net.Listener, state string) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("state") != state {
				http.Error(w, "state mismatch", http.StatusBadRequest)
				trySend(errCh, errors.New("oauth state mismatch"))
				return
			}
			if e := q.Get("error"); e != "" {
				http.Error(w, "authorization denied", http.StatusForbidden)
				trySend(errCh, fmt.Errorf("authorization denied: %s", e))
				return
			}
			code := q.Get("code")
			if code == "" {
				http.Error(w, "authorization code not found", http.StatusBadRequest)
				trySend(errCh, errors.New("authorization code not found in redirect"))
				return
			}
			_, _ = fmt.Fprintln(w, "Signed in to TempoFlow. You can close this window.")
			trySend(codeCh, code)
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			trySend(errCh, fmt.Errorf("loopback server: %w", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	timer := time.NewTimer(LoopbackTimeout)
	defer timer.Stop()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", errors.New("authorization timed out, please try again")
	}
}

func trySend[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}
