package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aryannaik/recon-dashboard/internal/logging"
)

// Manager tracks demo accounts and active sessions in memory. When a remember
// path is set, the most recently signed-in user is written there and restored
// on the next start, like a browser keeping the user in local storage.
type Manager struct {
	mu       sync.RWMutex
	users    map[string]User
	sessions map[string]string // token -> username
	path     string
	logger   *zap.Logger
	now      func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithRememberFile persists the signed-in user at dataDir/session.json.
func WithRememberFile(dataDir string) Option {
	return func(m *Manager) {
		m.path = filepath.Join(dataDir, "session.json")
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		m.logger = logging.OrNop(l)
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		users:    make(map[string]User),
		sessions: make(map[string]string),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register creates an account and signs it in.
func (m *Manager) Register(reg Registration) (string, User, error) {
	if err := ValidateUsername(reg.Username); err != nil {
		return "", User{}, err
	}
	if err := ValidateEmail(reg.Email); err != nil {
		return "", User{}, err
	}

	m.mu.Lock()
	if _, ok := m.users[reg.Username]; ok {
		m.mu.Unlock()
		return "", User{}, fmt.Errorf("%s: %w", reg.Username, ErrUserExists)
	}
	u := User{
		Username:     reg.Username,
		Email:        reg.Email,
		Fullname:     strings.TrimSpace(reg.Fullname),
		Organization: strings.TrimSpace(reg.Organization),
		Timezone:     DefaultTimezone,
		CreatedAt:    m.now().UTC(),
	}
	m.users[u.Username] = u
	token := m.startLocked(u.Username)
	m.mu.Unlock()

	m.logger.Info("account registered", zap.String("username", u.Username))
	m.remember(u)
	return token, u, nil
}

// Login signs a user in. The demo accepts any non-empty password; unknown
// usernames are registered on the fly without an email.
func (m *Manager) Login(username, password string) (string, User, error) {
	if err := ValidateUsername(username); err != nil {
		return "", User{}, err
	}
	if password == "" {
		return "", User{}, ErrInvalidCredentials
	}

	m.mu.Lock()
	u, ok := m.users[username]
	if !ok {
		u = User{Username: username, Timezone: DefaultTimezone, CreatedAt: m.now().UTC()}
		m.users[username] = u
	}
	token := m.startLocked(username)
	m.mu.Unlock()

	m.logger.Info("login", zap.String("username", username), zap.Bool("new", !ok))
	m.remember(u)
	return token, u, nil
}

func (m *Manager) startLocked(username string) string {
	token := uuid.NewString()
	m.sessions[token] = username
	return token
}

// Logout ends the session. The remembered user is forgotten only when it is
// the one logging out.
func (m *Manager) Logout(token string) error {
	m.mu.Lock()
	username, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()
	if !ok {
		return ErrNoSession
	}

	m.logger.Info("logout", zap.String("username", username))
	m.forget(username)
	return nil
}

// User returns the user signed in with token.
func (m *Manager) User(token string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	username, ok := m.sessions[token]
	if !ok {
		return User{}, ErrNoSession
	}
	return m.users[username], nil
}

// UpdateProfile merges the non-empty fields of upd into the user's profile.
func (m *Manager) UpdateProfile(token string, upd ProfileUpdate) (User, error) {
	m.mu.Lock()
	username, ok := m.sessions[token]
	if !ok {
		m.mu.Unlock()
		return User{}, ErrNoSession
	}
	u := m.users[username]
	if v := strings.TrimSpace(upd.Fullname); v != "" {
		u.Fullname = v
	}
	if v := strings.TrimSpace(upd.Organization); v != "" {
		u.Organization = v
	}
	if v := strings.TrimSpace(upd.Bio); v != "" {
		u.Bio = v
	}
	if v := strings.TrimSpace(upd.Timezone); v != "" {
		u.Timezone = v
	}
	m.users[username] = u
	m.mu.Unlock()

	m.remember(u)
	return u, nil
}

// Restore signs the remembered user back in. It returns ErrNoSession when
// nothing is remembered.
func (m *Manager) Restore() (string, User, error) {
	u, err := m.LoadFromDisk()
	if err != nil {
		return "", User{}, err
	}

	m.mu.Lock()
	m.users[u.Username] = u
	token := m.startLocked(u.Username)
	m.mu.Unlock()

	m.logger.Info("session restored", zap.String("username", u.Username))
	return token, u, nil
}

// LoadFromDisk reads the remembered user.
func (m *Manager) LoadFromDisk() (User, error) {
	if m.path == "" {
		return User{}, ErrNoSession
	}
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return User{}, ErrNoSession
	}
	if err != nil {
		return User{}, fmt.Errorf("read session file: %w", err)
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, fmt.Errorf("decode session file: %w", err)
	}
	if err := ValidateUsername(u.Username); err != nil {
		return User{}, fmt.Errorf("session file: %w", err)
	}
	return u, nil
}

// SaveToDisk writes u as the remembered user.
func (m *Manager) SaveToDisk(u User) error {
	if m.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (m *Manager) remember(u User) {
	if err := m.SaveToDisk(u); err != nil {
		m.logger.Warn("could not remember user", zap.Error(err))
	}
}

func (m *Manager) forget(username string) {
	if m.path == "" {
		return
	}
	if u, err := m.LoadFromDisk(); err != nil || u.Username != username {
		return
	}
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		m.logger.Warn("could not forget user", zap.Error(err))
	}
}
