package app

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aryannaik/recon-dashboard/internal/logging"
	"github.com/aryannaik/recon-dashboard/internal/records"
	"github.com/aryannaik/recon-dashboard/internal/search"
	"github.com/aryannaik/recon-dashboard/internal/session"
	"github.com/aryannaik/recon-dashboard/internal/targets"
)

// App wires the engine, the marker set and the session manager together.
type App struct {
	store    *records.Store
	searcher *search.Searcher
	sessions *session.Manager
	logger   *zap.Logger
	now      func() time.Time
}

func New(store *records.Store, ts []targets.Target, sessions *session.Manager, logger *zap.Logger) *App {
	return &App{
		store:    store,
		searcher: search.NewSearcher(store, ts),
		sessions: sessions,
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
}

// ParseSearchCategory accepts "all", a blank string or a record category.
func ParseSearchCategory(s string) (records.Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(records.All) {
		return records.All, nil
	}
	return records.ParseCategory(s)
}

// Search records the query in the state and runs it.
func (a *App) Search(st State, query string, category records.Category) (State, search.Response) {
	st.Query = query
	st.Category = category
	return st, a.searcher.Search(query, category)
}

// Refresh reruns the search stored in st, e.g. after the collection changed.
func (a *App) Refresh(st State) search.Response {
	return a.searcher.Search(st.Query, st.Category)
}

// Lookup returns a single record.
func (a *App) Lookup(id int) (records.Record, error) {
	return a.store.Lookup(id)
}

// LoadRecords replaces the collection from an uploaded payload. name is the
// original file name and only steers format detection.
func (a *App) LoadRecords(name string, data []byte) (int, error) {
	n, err := a.store.Load(records.DetectFormat(name, data), data)
	if err != nil {
		return 0, err
	}
	a.logger.Info("collection replaced", zap.String("source", name), zap.Int("count", n))
	return n, nil
}

// Targets returns the markers visible under st.
func (a *App) Targets(st State) search.TargetResponse {
	return a.searcher.Targets(st.Filters)
}

// ToggleFilter flips one filter value.
func (a *App) ToggleFilter(st State, kind targets.Kind, value string) (State, search.TargetResponse, error) {
	next, err := st.Filters.Toggle(kind, value)
	if err != nil {
		return st, search.TargetResponse{}, err
	}
	st.Filters = next
	return st, a.searcher.Targets(next), nil
}

// ResetFilters re-enables every filter value.
func (a *App) ResetFilters(st State) (State, search.TargetResponse) {
	st.Filters = targets.NewFilterState()
	return st, a.searcher.Targets(st.Filters)
}

// SetLayer switches the base map.
func (a *App) SetLayer(st State, id string) (State, targets.Layer, error) {
	layer, err := targets.LayerByID(id)
	if err != nil {
		return st, targets.Layer{}, err
	}
	st.Layer = layer.ID
	return st, layer, nil
}

// Login signs in and attaches the session to the state.
func (a *App) Login(st State, username, password string) (State, error) {
	token, u, err := a.sessions.Login(username, password)
	if err != nil {
		return st, err
	}
	return withSession(st, token, u), nil
}

// Register creates an account and attaches its session to the state.
func (a *App) Register(st State, reg session.Registration) (State, error) {
	token, u, err := a.sessions.Register(reg)
	if err != nil {
		return st, err
	}
	return withSession(st, token, u), nil
}

// Restore attaches the remembered user, if any, to the state.
func (a *App) Restore(st State) (State, error) {
	token, u, err := a.sessions.Restore()
	if err != nil {
		return st, err
	}
	return withSession(st, token, u), nil
}

// Resume attaches the session identified by token to the state.
func (a *App) Resume(st State, token string) (State, error) {
	u, err := a.sessions.User(token)
	if err != nil {
		return st, err
	}
	return withSession(st, token, u), nil
}

// Logout ends the session. The rest of the state survives.
func (a *App) Logout(st State) (State, error) {
	if !st.SignedIn() {
		return st, session.ErrNoSession
	}
	if err := a.sessions.Logout(st.Token); err != nil {
		return st, err
	}
	st.Token = ""
	st.User = nil
	return st, nil
}

// UpdateProfile edits the signed-in user's profile.
func (a *App) UpdateProfile(st State, upd session.ProfileUpdate) (State, error) {
	if !st.SignedIn() {
		return st, session.ErrNoSession
	}
	u, err := a.sessions.UpdateProfile(st.Token, upd)
	if err != nil {
		return st, err
	}
	st.User = &u
	return st, nil
}

// Profile is the signed-in user's profile page.
type Profile struct {
	session.User
	AccountAgeDays int `json:"accountAgeDays"`
}

// Profile returns the profile of the user signed in to st.
func (a *App) Profile(st State) (Profile, error) {
	if !st.SignedIn() {
		return Profile{}, session.ErrNoSession
	}
	return Profile{User: *st.User, AccountAgeDays: st.User.AccountAgeDays(a.now())}, nil
}

// Status summarizes the dashboard for a header bar.
type Status struct {
	Records int           `json:"records"`
	Targets int           `json:"targets"`
	Visible int           `json:"visible"`
	Layer   string        `json:"layer"`
	User    *session.User `json:"user,omitempty"`
}

func (a *App) Status(st State) Status {
	return Status{
		Records: a.store.Count(),
		Targets: len(a.searcher.AllTargets()),
		Visible: a.searcher.Targets(st.Filters).Total,
		Layer:   st.Layer,
		User:    st.User,
	}
}

func withSession(st State, token string, u session.User) State {
	st.Token = token
	st.User = &u
	return st
}

// Layers returns the base map catalogue.
func (a *App) Layers() []targets.Layer {
	return targets.Layers()
}
