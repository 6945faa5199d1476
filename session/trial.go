package session

import (
	"math"
	"time"

	"github.com/budgetwise/budgetwise-go/authclient"
)

const (
	trialLengthDays = 7

	// unlimitedDays is the days-left sentinel for paid subscribers.
	unlimitedDays = 999
)

// TrialStatus is the derived view of a user's trial that gates the app's
// paid features.
type TrialStatus struct {
	DaysLeft int
	Expired  bool
	Paid     bool
}

// DeriveTrialStatus computes the trial state of profile at the given time.
//
// A paid subscription short-circuits everything. Otherwise the trial runs
// trialLengthDays from trial_start_date, falling back to the account
// creation time when the profile predates trial tracking. A profile with no
// usable date at all is treated as a fresh trial rather than locking the
// user out.
func DeriveTrialStatus(profile *authclient.Profile, now time.Time) TrialStatus {
	fresh := TrialStatus{DaysLeft: trialLengthDays}

	if profile == nil {
		return fresh
	}
	if profile.SubscriptionStatus == "active" {
		return TrialStatus{DaysLeft: unlimitedDays, Paid: true}
	}

	start := time.Time{}
	switch {
	case profile.TrialStartDate != nil && !profile.TrialStartDate.IsZero():
		start = *profile.TrialStartDate
	case !profile.CreatedAt.IsZero():
		start = profile.CreatedAt
	default:
		return fresh
	}

	elapsedDays := int(math.Ceil(now.Sub(start).Hours() / 24))
	if elapsedDays < 0 {
		elapsedDays = 0
	}

	daysLeft := trialLengthDays - elapsedDays
	if daysLeft < 0 {
		daysLeft = 0
	}

	return TrialStatus{
		DaysLeft: daysLeft,
		Expired:  elapsedDays > trialLengthDays,
	}
}
