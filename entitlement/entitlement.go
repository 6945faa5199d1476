// Package entitlement bridges the session layer and the subscription
// provider. The session layer only ever asks "does this user hold an active
// entitlement", and never fails an auth flow because the provider is down.
package entitlement

import "context"

// Premium is the entitlement that unlocks the paid feature set.
const Premium = "premium"

// Service is a subscription provider bound to at most one user at a time.
type Service interface {
	// Configure associates the provider-side customer with userID,
	// creating one if this user has never been seen before.
	Configure(ctx context.Context, userID string) error
	// Active reports whether the configured user holds the premium
	// entitlement right now.
	Active(ctx context.Context) (bool, error)
	// Purchase starts a subscription on the given plan and reports
	// whether the entitlement is active afterwards.
	Purchase(ctx context.Context, plan string) (bool, error)
	// Restore re-checks the provider for an existing subscription,
	// e.g. after an app reinstall.
	Restore(ctx context.Context) (bool, error)
	// Logout detaches the provider from the current user.
	Logout(ctx context.Context) error
}
