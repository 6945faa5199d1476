package entitlement

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Syncer wraps a Service with the failure policy the session layer needs:
// every call is best-effort, provider errors are logged and reported as "no
// change", and a nil Syncer is a valid no-op.
type Syncer struct {
	svc Service
}

// NewSyncer wraps svc. A nil svc yields a Syncer whose methods all no-op.
func NewSyncer(svc Service) *Syncer {
	return &Syncer{svc: svc}
}

// Reconcile binds the provider to userID and reports whether the backend's
// subscription status is stale, i.e. the provider shows an active
// entitlement while the backend still says backendStatus is not active.
func (s *Syncer) Reconcile(ctx context.Context, userID, backendStatus string) bool {
	if s == nil || s.svc == nil {
		return false
	}

	if err := s.svc.Configure(ctx, userID); err != nil {
		log.Warn().Err(err).Msg("entitlement configure failed")
		return false
	}

	active, err := s.svc.Active(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("entitlement check failed")
		return false
	}

	return active && backendStatus != "active"
}

// Purchase starts a subscription and reports whether the entitlement became
// active.
func (s *Syncer) Purchase(ctx context.Context, plan string) bool {
	if s == nil || s.svc == nil {
		return false
	}

	active, err := s.svc.Purchase(ctx, plan)
	if err != nil {
		log.Warn().Err(err).Msg("entitlement purchase failed")
		return false
	}
	return active
}

// Restore re-checks for an existing subscription.
func (s *Syncer) Restore(ctx context.Context) bool {
	if s == nil || s.svc == nil {
		return false
	}

	active, err := s.svc.Restore(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("entitlement restore failed")
		return false
	}
	return active
}

// Dissociate detaches the provider from the current user. Failures are
// logged only; local logout never blocks on the provider.
func (s *Syncer) Dissociate(ctx context.Context) {
	if s == nil || s.svc == nil {
		return
	}
	if err := s.svc.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("entitlement logout failed")
	}
}
