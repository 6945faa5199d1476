package model

import "time"

// SubscriptionStatus values stored on a profile row.
const (
	SubscriptionTrial  = "trial"
	SubscriptionActive = "active"
)

// Profile is the extended user record served to clients. Column names double
// as the JSON field names the mobile app already depends on.
type Profile struct {
	UserID             string     `db:"user_id" json:"user_id"`
	Email              string     `db:"email" json:"email"`
	Name               *string    `db:"name" json:"name,omitempty"`
	AvatarURL          *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	SubscriptionStatus string     `db:"subscription_status" json:"subscription_status"`
	TrialStartDate     *time.Time `db:"trial_start_date" json:"trial_start_date,omitempty"`
	TrialEndDate       *time.Time `db:"trial_end_date" json:"trial_end_date,omitempty"`
	MonthlyIncome      *float64   `db:"monthly_income" json:"monthly_income,omitempty"`
	SavingsRate        *float64   `db:"savings_rate" json:"savings_rate,omitempty"`
	Currency           string     `db:"currency" json:"currency"`
	Bio                *string    `db:"bio" json:"bio,omitempty"`
	BusinessIndustry   string     `db:"business_industry" json:"business_industry"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// UpdateProfileParams carries a partial profile update. Nil fields keep the
// stored value (COALESCE semantics in the repository).
type UpdateProfileParams struct {
	UserID             string
	Name               *string
	AvatarURL          *string
	SubscriptionStatus *string
	TrialStartDate     *time.Time
	TrialEndDate       *time.Time
	MonthlyIncome      *float64
	SavingsRate        *float64
	Currency           *string
	Bio                *string
	BusinessIndustry   *string
}
