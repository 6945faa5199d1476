package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/budgetwise/budgetwise-go/internal/model"
)

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Create(ctx context.Context, profile model.Profile) (*model.Profile, error)
	// Upsert applies a partial update: nil fields keep the stored value.
	Upsert(ctx context.Context, params model.UpdateProfileParams) (*model.Profile, error)
	SetSubscriptionStatus(ctx context.Context, userID string, status string) error
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) ProfileRepository
}

type profileDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type profileRepo struct {
	db profileDB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) WithTx(tx *sqlx.Tx) ProfileRepository {
	return &profileRepo{db: tx}
}

func (r *profileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `
		SELECT * FROM profiles WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) Create(ctx context.Context, profile model.Profile) (*model.Profile, error) {
	var created model.Profile
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO profiles (
			user_id, email, name, subscription_status,
			trial_start_date, trial_end_date, currency, business_industry
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *
	`, profile.UserID, profile.Email, profile.Name, profile.SubscriptionStatus,
		profile.TrialStartDate, profile.TrialEndDate, profile.Currency, profile.BusinessIndustry)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *profileRepo) Upsert(ctx context.Context, params model.UpdateProfileParams) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `
		UPDATE profiles SET
			name = COALESCE($2, name),
			avatar_url = COALESCE($3, avatar_url),
			subscription_status = COALESCE($4, subscription_status),
			trial_start_date = COALESCE($5, trial_start_date),
			trial_end_date = COALESCE($6, trial_end_date),
			monthly_income = COALESCE($7, monthly_income),
			savings_rate = COALESCE($8, savings_rate),
			currency = COALESCE($9, currency),
			bio = COALESCE($10, bio),
			business_industry = COALESCE($11, business_industry),
			updated_at = $12
		WHERE user_id = $1
		RETURNING *
	`, params.UserID, params.Name, params.AvatarURL, params.SubscriptionStatus,
		params.TrialStartDate, params.TrialEndDate, params.MonthlyIncome,
		params.SavingsRate, params.Currency, params.Bio, params.BusinessIndustry,
		time.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) SetSubscriptionStatus(ctx context.Context, userID string, status string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET
			subscription_status = $2,
			updated_at = $3
		WHERE user_id = $1
	`, userID, status, time.Now())
	return err
}
