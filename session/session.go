// Package session owns the persisted auth state: sign-up/in/out against
// the platform's auth endpoints, restore across restarts, token refresh,
// and the role-metadata admin check.
package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/muhammed1675/ScentsByMotun/errs"
	"github.com/muhammed1675/ScentsByMotun/events"
	"github.com/muhammed1675/ScentsByMotun/gateway"
	"github.com/muhammed1675/ScentsByMotun/models"
	"github.com/muhammed1675/ScentsByMotun/store"
)

// State is the auth_state_changed payload. User is nil after sign-out.
type State struct {
	User    *models.User `json:"user"`
	IsAdmin bool         `json:"is_admin"`
}

// Manager is the session store. The profile store is the sole source of
// truth; in-memory state is a mirror that reloads whenever the stored
// record changes, including changes made by another process.
type Manager struct {
	gw        *gateway.Client
	st        *store.Store
	bus       *events.Bus
	adminRole string

	mu      sync.Mutex
	session *models.Session

	unsub func()
}

// New builds a Manager and restores any previously persisted session. A
// record that fails to parse is discarded, never left half-loaded.
func New(gw *gateway.Client, st *store.Store, bus *events.Bus, adminRole string) *Manager {
	m := &Manager{gw: gw, st: st, bus: bus, adminRole: adminRole}

	if value, ok, err := st.Get(store.KeySession); err != nil {
		log.Printf("[Auth] failed to load session: %v", err)
	} else if ok {
		var s models.Session
		if err := json.Unmarshal([]byte(value), &s); err != nil {
			log.Printf("[Auth] discarding corrupt session record: %v", err)
			if err := st.Delete(store.KeySession); err != nil {
				log.Printf("[Auth] failed to discard session record: %v", err)
			}
		} else {
			m.session = &s
		}
	}

	m.unsub = st.Subscribe(store.KeySession, m.applyStored)
	return m
}

// Dispose detaches the manager from the profile store.
func (m *Manager) Dispose() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

// applyStored reloads in-memory state from a changed stored record.
func (m *Manager) applyStored(value string, ok bool) {
	if !ok {
		m.setSession(nil)
		return
	}
	var s models.Session
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		log.Printf("[Auth] discarding corrupt session record: %v", err)
		// Re-enters applyStored with ok=false, which resets cleanly.
		if derr := m.st.Delete(store.KeySession); derr != nil {
			log.Printf("[Auth] failed to discard session record: %v", derr)
		}
		return
	}
	m.setSession(&s)
}

func (m *Manager) setSession(s *models.Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()

	state := State{}
	if s != nil {
		user := s.User
		state.User = &user
		state.IsAdmin = m.IsAdmin()
	}
	m.bus.Publish(events.TopicAuthStateChanged, state)
}

func (m *Manager) persist(s models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	// Put notifies the store subscription, which updates in-memory state
	// and publishes auth_state_changed. Single code path for local writes
	// and cross-process ones.
	return m.st.Put(store.KeySession, string(data))
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}

// SignUp registers a new account and creates its public profile row.
// Most platforms withhold the token pair until the email is confirmed,
// so no session is persisted here.
func (m *Manager) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.User, error) {
	if email == "" {
		return nil, errs.Validation("email", "must not be empty")
	}
	if password == "" {
		return nil, errs.Validation("password", "must not be empty")
	}

	var resp struct {
		User models.User `json:"user"`
	}
	payload := map[string]any{"email": email, "password": password, "data": metadata}
	if err := m.gw.Auth(ctx, "signup", payload, &resp); err != nil {
		return nil, err
	}

	profile := map[string]any{"id": resp.User.ID, "email": resp.User.Email}
	if err := m.gw.Create(ctx, "users", profile, nil); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// SignIn exchanges credentials for a token pair and persists the session.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, errs.Validation("credentials", "email and password are required")
	}

	var resp tokenResponse
	payload := map[string]any{"email": email, "password": password}
	if err := m.gw.Auth(ctx, "token?grant_type=password", payload, &resp); err != nil {
		return nil, err
	}

	s := models.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	}
	if err := m.persist(s); err != nil {
		return nil, err
	}
	return &s.User, nil
}

// SignOut revokes the session upstream on a best-effort basis, then
// clears the session and the cart. Checkout state never survives a user
// switch.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	hasToken := m.session != nil && m.session.AccessToken != ""
	m.mu.Unlock()

	if hasToken {
		if err := m.gw.Auth(ctx, "logout", nil, nil); err != nil {
			log.Printf("[Auth] upstream logout failed: %v", err)
		}
	}

	if err := m.st.Delete(store.KeySession); err != nil {
		return err
	}
	return m.st.Delete(store.KeyCart)
}

// Current returns a copy of the active session, or nil.
func (m *Manager) Current() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// AccessToken implements gateway.TokenSource.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.AccessToken
}

// IsAuthenticated reports whether a usable token pair is present. The
// access token's expiry claim is inspected locally; the platform remains
// the actual verifier of its signature.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	s := m.session
	m.mu.Unlock()

	if s == nil || s.AccessToken == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		// Not a parseable JWT; presence of the token is all we can check.
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(nowFunc())
}

// IsAdmin is true only for an authenticated session whose role metadata
// equals the admin role. Email contents play no part in this decision.
func (m *Manager) IsAdmin() bool {
	if !m.IsAuthenticated() {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil && m.session.User.Role() == m.adminRole
}

// Refresh exchanges the refresh token for a new token pair. Any failure
// clears the session; a stale half-refreshed session is worse than none.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	var refreshToken string
	if m.session != nil {
		refreshToken = m.session.RefreshToken
	}
	user := models.User{}
	if m.session != nil {
		user = m.session.User
	}
	m.mu.Unlock()

	if refreshToken == "" {
		return errs.ErrAuthRequired
	}

	var resp tokenResponse
	payload := map[string]any{"refresh_token": refreshToken}
	if err := m.gw.Auth(ctx, "token?grant_type=refresh_token", payload, &resp); err != nil {
		if derr := m.st.Delete(store.KeySession); derr != nil {
			log.Printf("[Auth] failed to clear session after refresh failure: %v", derr)
		}
		return err
	}

	s := models.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         user,
	}
	if resp.RefreshToken == "" {
		s.RefreshToken = refreshToken
	}
	if resp.User.ID != "" {
		s.User = resp.User
	}
	return m.persist(s)
}
