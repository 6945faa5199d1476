package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/budgetwise/budgetwise-go/authclient"
)

func TestDeriveTrialStatus(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	daysAgo := func(d int) *time.Time {
		ts := now.AddDate(0, 0, -d)
		return &ts
	}

	tests := []struct {
		name    string
		profile *authclient.Profile
		want    TrialStatus
	}{
		{
			name:    "nil profile treated as fresh trial",
			profile: nil,
			want:    TrialStatus{DaysLeft: 7},
		},
		{
			name: "paid subscriber",
			profile: &authclient.Profile{
				SubscriptionStatus: "active",
				TrialStartDate:     daysAgo(30),
			},
			want: TrialStatus{DaysLeft: 999, Paid: true},
		},
		{
			name: "three days in",
			profile: &authclient.Profile{
				SubscriptionStatus: "trial",
				TrialStartDate:     daysAgo(3),
			},
			want: TrialStatus{DaysLeft: 4},
		},
		{
			name: "just started",
			profile: &authclient.Profile{
				SubscriptionStatus: "trial",
				TrialStartDate:     &now,
			},
			want: TrialStatus{DaysLeft: 7},
		},
		{
			name: "partial day counts as a full day",
			profile: &authclient.Profile{
				SubscriptionStatus: "trial",
				TrialStartDate: func() *time.Time {
					ts := now.Add(-36 * time.Hour)
					return &ts
				}(),
			},
			want: TrialStatus{DaysLeft: 5},
		},
		{
			name: "last day still usable",
			profile: &authclient.Profile{
				SubscriptionStatus: "trial",
				TrialStartDate:     daysAgo(7),
			},
			want: TrialStatus{DaysLeft: 0},
		},
		{
			name: "expired past day seven",
			profile: &authclient.Profile{
				SubscriptionStatus: "trial",
				TrialStartDate:     daysAgo(8),
			},
			want: TrialStatus{DaysLeft: 0, Expired: true},
		},
		{
			name: "falls back to account creation time",
			profile: &authclient.Profile{
				SubscriptionStatus: "trial",
				CreatedAt:          now.AddDate(0, 0, -2),
			},
			want: TrialStatus{DaysLeft: 5},
		},
		{
			name: "no usable date fails open",
			profile: &authclient.Profile{
				SubscriptionStatus: "trial",
			},
			want: TrialStatus{DaysLeft: 7},
		},
		{
			name: "start date in the future clamps to full trial",
			profile: &authclient.Profile{
				SubscriptionStatus: "trial",
				TrialStartDate:     daysAgo(-1),
			},
			want: TrialStatus{DaysLeft: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTrialStatus(tt.profile, now))
		})
	}
}
