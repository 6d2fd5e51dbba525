package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/aryannaik/recon-dashboard/internal/app"
	"github.com/aryannaik/recon-dashboard/internal/logging"
	"github.com/aryannaik/recon-dashboard/internal/records"
	"github.com/aryannaik/recon-dashboard/internal/search"
	"github.com/aryannaik/recon-dashboard/internal/session"
	"github.com/aryannaik/recon-dashboard/internal/targets"
)

// TokenHeader carries the session token issued by /api/login.
const TokenHeader = "X-Session-Token"

// viewer is one client's dashboard state. Its lock is held across every
// read-modify-write of st, so concurrent requests on one token serialize.
type viewer struct {
	mu sync.Mutex
	st app.State
}

type Handlers struct {
	app            *app.App
	logger         *zap.Logger
	maxUploadBytes int64

	mu      sync.Mutex
	viewers map[string]*viewer // keyed by session token; "" is the default viewer
}

func NewHandlers(a *app.App, maxUploadBytes int64, logger *zap.Logger) *Handlers {
	return &Handlers{
		app:            a,
		logger:         logging.OrNop(logger),
		maxUploadBytes: maxUploadBytes,
		viewers:        map[string]*viewer{"": {st: app.NewState()}},
	}
}

// Restore signs the remembered user back in and makes it the default viewer,
// so requests without a token see the dashboard as that user. It returns
// session.ErrNoSession when nobody is remembered.
func (h *Handlers) Restore() error {
	st, err := h.app.Restore(app.NewState())
	if err != nil {
		return err
	}
	v := &viewer{st: st}

	h.mu.Lock()
	h.viewers[""] = v
	h.viewers[st.Token] = v
	h.mu.Unlock()

	h.logger.Info("remembered user restored", zap.String("username", st.User.Username))
	return nil
}

// viewer returns the locked viewer for the request's token. An unknown token
// that still names a live session gets a fresh state bound to it. Callers
// must unlock it.
func (h *Handlers) viewer(r *http.Request) (*viewer, error) {
	token := r.Header.Get(TokenHeader)

	h.mu.Lock()
	v, ok := h.viewers[token]
	h.mu.Unlock()
	if !ok {
		st, err := h.app.Resume(app.NewState(), token)
		if err != nil {
			return nil, err
		}
		v = h.add(st)
	}
	v.mu.Lock()
	return v, nil
}

// add registers st under its token unless another request got there first.
func (h *Handlers) add(st app.State) *viewer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v, ok := h.viewers[st.Token]; ok {
		return v
	}
	v := &viewer{st: st}
	h.viewers[st.Token] = v
	return v
}

func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	category, err := app.ParseSearchCategory(r.URL.Query().Get("category"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	v, err := h.viewer(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer v.mu.Unlock()

	var resp search.Response
	v.st, resp = h.app.Search(v.st, r.URL.Query().Get("q"), category)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) HandleLookup(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	rec, err := h.app.Lookup(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type loadResponse struct {
	Loaded  int             `json:"loaded"`
	Results search.Response `json:"results"`
}

// HandleLoad replaces the collection and reruns the caller's last search
// against it.
func (h *Handlers) HandleLoad(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "payload too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read payload"})
		return
	}

	v, err := h.viewer(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer v.mu.Unlock()

	n, err := h.app.LoadRecords(r.URL.Query().Get("name"), data)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loadResponse{Loaded: n, Results: h.app.Refresh(v.st)})
}

func (h *Handlers) HandleTargets(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer v.mu.Unlock()
	writeJSON(w, http.StatusOK, h.app.Targets(v.st))
}

type toggleRequest struct {
	Kind  targets.Kind `json:"kind"`
	Value string       `json:"value"`
}

func (h *Handlers) HandleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := h.viewer(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer v.mu.Unlock()

	st, resp, err := h.app.ToggleFilter(v.st, req.Kind, req.Value)
	if err != nil {
		h.writeError(w, err)
		return
	}
	v.st = st
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer v.mu.Unlock()

	var resp search.TargetResponse
	v.st, resp = h.app.ResetFilters(v.st)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) HandleLayers(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer v.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"current": v.st.Layer,
		"layers":  h.app.Layers(),
	})
}

func (h *Handlers) HandleSetLayer(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer v.mu.Unlock()

	st, layer, err := h.app.SetLayer(v.st, r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	v.st = st
	writeJSON(w, http.StatusOK, layer)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  *session.User `json:"user"`
}

func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := h.app.Login(app.NewState(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.add(st)
	writeJSON(w, http.StatusOK, loginResponse{Token: st.Token, User: st.User})
}

func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req session.Registration
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := h.app.Register(app.NewState(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.add(st)
	writeJSON(w, http.StatusCreated, loginResponse{Token: st.Token, User: st.User})
}

// HandleLogout ends the session. A restored default viewer stays in place,
// signed out, so token-less clients keep their filters and layer.
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer v.mu.Unlock()

	token := v.st.Token
	st, err := h.app.Logout(v.st)
	if err != nil {
		h.writeError(w, err)
		return
	}
	v.st = st

	h.mu.Lock()
	delete(h.viewers, token)
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handlers) HandleProfile(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer v.mu.Unlock()

	if r.Method == http.MethodPost {
		var upd session.ProfileUpdate
		if !decodeJSON(w, r, &upd) {
			return
		}
		st, err := h.app.UpdateProfile(v.st, upd)
		if err != nil {
			h.writeError(w, err)
			return
		}
		v.st = st
	}

	profile, err := h.app.Profile(v.st)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer v.mu.Unlock()
	writeJSON(w, http.StatusOK, h.app.Status(v.st))
}

// writeError maps domain errors onto HTTP status codes.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var parseErr *records.ParseError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &parseErr):
		status = http.StatusBadRequest
	case errors.Is(err, records.ErrNotFound), errors.Is(err, targets.ErrUnknownLayer):
		status = http.StatusNotFound
	case errors.Is(err, targets.ErrUnknownValue),
		errors.Is(err, session.ErrInvalidUsername),
		errors.Is(err, session.ErrInvalidEmail):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrUserExists):
		status = http.StatusConflict
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	} else {
		h.logger.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
