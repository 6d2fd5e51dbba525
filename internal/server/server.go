package server

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/aryannaik/recon-dashboard/internal/app"
	"github.com/aryannaik/recon-dashboard/internal/logging"
	"github.com/aryannaik/recon-dashboard/internal/session"
)

// NewMux registers the API routes and the static file server.
func NewMux(h *Handlers, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/records", h.HandleSearch)
	mux.HandleFunc("GET /api/records/{id}", h.HandleLookup)
	mux.HandleFunc("POST /api/records/load", h.HandleLoad)
	mux.HandleFunc("GET /api/targets", h.HandleTargets)
	mux.HandleFunc("POST /api/targets/toggle", h.HandleToggle)
	mux.HandleFunc("POST /api/targets/reset", h.HandleReset)
	mux.HandleFunc("GET /api/layers", h.HandleLayers)
	mux.HandleFunc("POST /api/layers/{id}", h.HandleSetLayer)
	mux.HandleFunc("POST /api/login", h.HandleLogin)
	mux.HandleFunc("POST /api/register", h.HandleRegister)
	mux.HandleFunc("POST /api/logout", h.HandleLogout)
	mux.HandleFunc("GET /api/profile", h.HandleProfile)
	mux.HandleFunc("POST /api/profile", h.HandleProfile)
	mux.HandleFunc("GET /api/status", h.HandleStatus)
	if staticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

func New(port string, staticDir string, a *app.App, maxUploadBytes int64, logger *zap.Logger) *http.Server {
	logger = logging.OrNop(logger)
	handlers := NewHandlers(a, maxUploadBytes, logger)
	if err := handlers.Restore(); err != nil && !errors.Is(err, session.ErrNoSession) {
		logger.Warn("could not restore remembered user", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           NewMux(handlers, staticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server configured", zap.String("addr", "http://localhost:"+port))
	return srv
}
