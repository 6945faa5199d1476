// Package session owns the client-side auth state of the app: who is signed
// in, their profile, and the persisted session token. All state changes are
// announced through a single change callback so UI layers can re-render.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/budgetwise/budgetwise-go/authclient"
	"github.com/budgetwise/budgetwise-go/entitlement"
	"github.com/budgetwise/budgetwise-go/tokenstore"
)

// ErrNotAuthenticated is returned by operations that require a signed-in
// user.
var ErrNotAuthenticated = errors.New("You must be logged in to do that.")

// User is the signed-in identity.
type User struct {
	ID    string
	Email string
}

// Backend is the slice of the auth API the session manager needs.
// *authclient.Client satisfies it.
type Backend interface {
	Login(ctx context.Context, email, password string) (*authclient.LoginResult, error)
	Signup(ctx context.Context, email, password, name string) (*authclient.SignupResult, error)
	GetProfile(ctx context.Context, token string) (*authclient.Profile, error)
	UpdateProfile(ctx context.Context, token string, updates map[string]any) error
}

// Manager holds the session state. It is confined to the goroutine driving
// the UI, like the view-model layer it backs, and is not safe for concurrent
// use. It starts in the loading state and stays there until Bootstrap has
// run once.
type Manager struct {
	backend Backend
	store   tokenstore.Store
	sync    *entitlement.Syncer

	user     *User
	profile  *authclient.Profile
	token    string
	loading  bool
	onChange func()
}

// NewManager wires a session manager. syncer may be nil when the build has
// no subscription provider configured.
func NewManager(backend Backend, store tokenstore.Store, syncer *entitlement.Syncer) *Manager {
	return &Manager{
		backend: backend,
		store:   store,
		sync:    syncer,
		loading: true,
	}
}

// SetOnChange registers the callback fired after every state change. The
// callback may read the manager freely.
func (m *Manager) SetOnChange(fn func()) {
	m.onChange = fn
}

// Bootstrap restores a persisted session at app start. Whatever happens, the
// loading flag is cleared exactly when Bootstrap returns. A persisted token
// the backend no longer accepts is discarded so the next start goes straight
// to the login screen.
func (m *Manager) Bootstrap(ctx context.Context) {
	defer func() {
		m.loading = false
		m.notify()
	}()

	token := m.store.Get(ctx, tokenstore.SessionTokenKey)
	if token == "" {
		return
	}

	profile, err := m.backend.GetProfile(ctx, token)
	if err != nil {
		log.Warn().Err(err).Msg("stored session did not restore, discarding token")
		m.store.Delete(ctx, tokenstore.SessionTokenKey)
		return
	}

	m.token = token
	m.profile = profile
	m.user = &User{ID: profile.UserID, Email: profile.Email}

	m.reconcileEntitlement(ctx, profile.UserID)
}

// Login signs the user in. On failure no local state changes; the returned
// error carries the message to show.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	res, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}

	m.store.Save(ctx, tokenstore.SessionTokenKey, res.Token)
	m.token = res.Token
	m.user = &User{ID: res.UserID, Email: email}
	m.profile = res.Profile

	m.reconcileEntitlement(ctx, res.UserID)
	m.notify()
	return nil
}

// Signup creates an account and signs the user in. The profile is seeded
// locally with the trial defaults the backend just created, so trial gating
// works before the first refresh.
func (m *Manager) Signup(ctx context.Context, email, password, name string) error {
	res, err := m.backend.Signup(ctx, email, password, name)
	if err != nil {
		return err
	}

	m.store.Save(ctx, tokenstore.SessionTokenKey, res.Token)

	now := time.Now()
	profile := &authclient.Profile{
		UserID:             res.UserID,
		Email:              email,
		SubscriptionStatus: "trial",
		TrialStartDate:     &now,
	}
	if name != "" {
		profile.Name = &name
	}

	m.token = res.Token
	m.user = &User{ID: res.UserID, Email: email}
	m.profile = profile

	m.reconcileEntitlement(ctx, res.UserID)
	m.notify()
	return nil
}

// Logout tears down the local session. The entitlement provider is detached
// best-effort; its failures never leave the user half signed out.
func (m *Manager) Logout(ctx context.Context) {
	m.store.Delete(ctx, tokenstore.SessionTokenKey)
	m.token = ""
	m.user = nil
	m.profile = nil

	m.sync.Dissociate(ctx)
	m.notify()
}

// RefreshProfile re-fetches the profile from the backend. While signed out
// it does nothing. On failure the cached profile is kept.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	token := m.store.Get(ctx, tokenstore.SessionTokenKey)
	if token == "" {
		return nil
	}

	profile, err := m.backend.GetProfile(ctx, token)
	if err != nil {
		log.Warn().Err(err).Msg("profile refresh failed, keeping cached profile")
		return err
	}

	m.profile = profile
	m.user = &User{ID: profile.UserID, Email: profile.Email}

	m.notify()
	return nil
}

// UpdateProfile pushes a partial update to the backend and, once accepted,
// merges it into the cached profile.
func (m *Manager) UpdateProfile(ctx context.Context, updates map[string]any) error {
	if m.user == nil {
		return ErrNotAuthenticated
	}

	if err := m.backend.UpdateProfile(ctx, m.token, updates); err != nil {
		return err
	}

	if m.profile != nil {
		m.profile.Apply(updates)
	}

	m.notify()
	return nil
}

// Purchase starts a subscription through the entitlement provider and, when
// it activates, marks the account active on the backend and locally.
func (m *Manager) Purchase(ctx context.Context, plan string) bool {
	if !m.sync.Purchase(ctx, plan) {
		return false
	}
	m.activateSubscription(ctx)
	m.notify()
	return true
}

// RestorePurchases re-checks the provider for an existing subscription,
// e.g. after a reinstall.
func (m *Manager) RestorePurchases(ctx context.Context) bool {
	if !m.sync.Restore(ctx) {
		return false
	}
	m.activateSubscription(ctx)
	m.notify()
	return true
}

// Token returns the persisted session token, or "" when signed out.
func (m *Manager) Token(ctx context.Context) string {
	return m.store.Get(ctx, tokenstore.SessionTokenKey)
}

// CurrentUser returns the signed-in user, or nil.
func (m *Manager) CurrentUser() *User {
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Profile returns the cached profile, or nil when signed out.
func (m *Manager) Profile() *authclient.Profile {
	return m.profile
}

// Loading reports whether the initial bootstrap is still in flight.
func (m *Manager) Loading() bool {
	return m.loading
}

// Authenticated reports whether a user is signed in.
func (m *Manager) Authenticated() bool {
	return m.user != nil
}

// TrialStatus derives the current trial state from the cached profile.
func (m *Manager) TrialStatus() TrialStatus {
	return DeriveTrialStatus(m.profile, time.Now())
}

// reconcileEntitlement pushes the provider's view of the subscription to the
// backend when the backend lags behind. Everything here is best-effort.
func (m *Manager) reconcileEntitlement(ctx context.Context, userID string) {
	status := ""
	if m.profile != nil {
		status = m.profile.SubscriptionStatus
	}

	if !m.sync.Reconcile(ctx, userID, status) {
		return
	}
	m.activateSubscription(ctx)
}

// activateSubscription records an active subscription on the backend and in
// the cached profile. The provider is the source of truth here, so the local
// merge happens even if the backend push fails.
func (m *Manager) activateSubscription(ctx context.Context) {
	updates := map[string]any{"subscription_status": "active"}
	if err := m.backend.UpdateProfile(ctx, m.token, updates); err != nil {
		log.Warn().Err(err).Msg("failed to push subscription status, will retry on next sync")
	}

	if m.profile != nil {
		m.profile.Apply(updates)
	}
}

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange()
	}
}
