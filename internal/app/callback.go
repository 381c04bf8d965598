package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mkorolev/whoopsync/internal/logging"
	"github.com/mkorolev/whoopsync/internal/models"
)

// CodeExchanger trades an authorization code for a persisted token pair.
// The WHOOP client implements it.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*models.Token, error)
}

// CallbackServer is the tiny local HTTP listener WHOOP redirects the
// browser to after the user approves access. It validates the CSRF state,
// exchanges the code, and shows a small confirmation page.
type CallbackServer struct {
	addr      string
	exchanger CodeExchanger
	states    *PendingStates
	logger    logging.Logger
}

func NewCallbackServer(addr string, exchanger CodeExchanger, states *PendingStates, logger logging.Logger) *CallbackServer {
	return &CallbackServer{
		addr:      addr,
		exchanger: exchanger,
		states:    states,
		logger:    logger.With("component", "callback"),
	}
}

// Run serves /callback until ctx is cancelled, then shuts down gracefully.
func (s *CallbackServer) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", s.handleCallback)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errCode := q.Get("error"); errCode != "" {
		s.logger.Warn(r.Context(), "authorization denied", "error", errCode)
		http.Error(w, "Authorization was denied: "+errCode, http.StatusBadRequest)
		return
	}

	state := q.Get("state")
	if state == "" || !s.states.Consume(state) {
		s.logger.Warn(r.Context(), "callback with invalid state")
		http.Error(w, "Invalid or expired state token. Request a new authorization URL.", http.StatusUnauthorized)
		return
	}

	code := q.Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code.", http.StatusBadRequest)
		return
	}

	if _, err := s.exchanger.ExchangeCode(r.Context(), code); err != nil {
		s.logger.Error(r.Context(), "code exchange failed", "error", err)
		http.Error(w, "Token exchange failed. Check the server logs.", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, successPage)
}

const successPage = `<!DOCTYPE html>
<html>
<head><title>whoopsync</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em;">
<h1>Connected to WHOOP</h1>
<p>Authorization complete. You can close this tab and go back to your assistant.</p>
</body>
</html>`
