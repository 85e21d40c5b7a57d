package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/vk/packrun/internal/ctxlog"
)

// startHealthcheckServer runs a minimal HTTP server exposing /health so
// long-running installs can be monitored. It blocks until the server exits
// and is meant to be started on its own goroutine.
func (a *App) startHealthcheckServer(ctx context.Context, port int) {
	logger := ctxlog.FromContext(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{Addr: addr, Handler: mux}

	logger.Info("Health check server starting.", "address", fmt.Sprintf("http://localhost%s/health", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Health check server failed unexpectedly.", "error", err)
	}
}
