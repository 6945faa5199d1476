package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/budgetwise/budgetwise-go/internal/config"
	"github.com/budgetwise/budgetwise-go/internal/database"
	apperrors "github.com/budgetwise/budgetwise-go/internal/errors"
	"github.com/budgetwise/budgetwise-go/internal/model"
	"github.com/budgetwise/budgetwise-go/internal/repository"
	"github.com/budgetwise/budgetwise-go/internal/util"
)

const resetSuccessMessage = "If an account exists for this email, a password reset link has been sent."

type AuthResult struct {
	UserID  string         `json:"userId"`
	Token   string         `json:"token"`
	Profile *model.Profile `json:"profile,omitempty"`
}

type TokenClaims struct {
	UserID string
	Email  string
}

type jwtClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Mailer delivers password reset tokens to users. The production
// implementation is owned by deployment; LogMailer backs development.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes reset tokens to the log instead of sending mail.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	log.Info().
		Str("email", email).
		Str("token", util.MaskToken(token)).
		Msg("password reset requested (mail delivery disabled)")
	return nil
}

type AuthService struct {
	db          *database.DB
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	mailer      Mailer
	jwtSecret   []byte
	tokenTTL    time.Duration
	resetTTL    time.Duration
}

func NewAuthService(
	db *database.DB,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	mailer Mailer,
	jwtSecret string,
	tokenTTL time.Duration,
	resetTTL time.Duration,
) *AuthService {
	return &AuthService{
		db:          db,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		mailer:      mailer,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		resetTTL:    resetTTL,
	}
}

func (s *AuthService) Signup(ctx context.Context, email, password string, name *string) (*AuthResult, error) {
	email = util.NormalizeEmail(email)
	if !util.IsValidEmail(email) {
		return nil, apperrors.ValidationError("A valid email address is required")
	}
	if !util.IsValidPassword(password) {
		return nil, apperrors.WeakPassword(util.PasswordPolicyMessage)
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return nil, apperrors.EmailTaken()
	}

	passwordHash, err := util.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID := uuid.NewString()
	now := time.Now()
	trialEnd := now.AddDate(0, 0, config.TrialLengthDays)

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.userRepo.WithTx(tx).Create(ctx, model.CreateUserParams{
			ID:           userID,
			Email:        email,
			PasswordHash: passwordHash,
			Name:         name,
		}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		if _, err := s.profileRepo.WithTx(tx).Create(ctx, model.Profile{
			UserID:             userID,
			Email:              email,
			Name:               name,
			SubscriptionStatus: model.SubscriptionTrial,
			TrialStartDate:     &now,
			TrialEndDate:       &trialEnd,
			Currency:           "USD",
			BusinessIndustry:   "General",
		}); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	token, err := s.issueToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	log.Info().
		Str("userId", userID).
		Msg("user signed up")

	return &AuthResult{UserID: userID, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = util.NormalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		log.Warn().Msg("login attempt for unknown email")
		return nil, apperrors.InvalidCredentials()
	}

	if !util.CheckPasswordHash(password, user.PasswordHash) {
		log.Warn().Str("userId", user.ID).Msg("login attempt with wrong password")
		return nil, apperrors.InvalidCredentials()
	}

	profile, err := s.profileRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	token, err := s.issueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	log.Info().
		Str("userId", user.ID).
		Msg("user logged in")

	return &AuthResult{UserID: user.ID, Token: token, Profile: profile}, nil
}

// VerifyToken parses and validates a bearer token issued by this service.
func (s *AuthService) VerifyToken(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperrors.InvalidToken("Invalid or expired token")
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok {
		return nil, apperrors.InvalidToken("Invalid or expired token")
	}

	return &TokenClaims{UserID: claims.Subject, Email: claims.Email}, nil
}

// RequestPasswordReset always reports success so the endpoint cannot be used
// to enumerate accounts. The token itself goes out through the mailer.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = util.NormalizeEmail(email)
	if !util.IsValidEmail(email) {
		return "", apperrors.ValidationError("A valid email address is required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", apperrors.Database(err)
	}
	if user == nil {
		return resetSuccessMessage, nil
	}

	token, err := util.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, util.HashToken(token), expiresAt); err != nil {
		return "", apperrors.Database(err)
	}

	if err := s.mailer.SendPasswordReset(ctx, email, token); err != nil {
		log.Error().Err(err).Str("userId", user.ID).Msg("failed to send password reset mail")
	}

	return resetSuccessMessage, nil
}

func (s *AuthService) VerifyResetToken(ctx context.Context, token string) error {
	if !util.IsValidResetToken(token) {
		return apperrors.InvalidResetToken()
	}

	user, err := s.userRepo.FindByResetTokenHash(ctx, util.HashToken(token))
	if err != nil {
		return apperrors.Database(err)
	}
	if user == nil {
		return apperrors.InvalidResetToken()
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !util.IsValidPassword(newPassword) {
		return apperrors.WeakPassword(util.PasswordPolicyMessage)
	}
	if !util.IsValidResetToken(token) {
		return apperrors.InvalidResetToken()
	}

	user, err := s.userRepo.FindByResetTokenHash(ctx, util.HashToken(token))
	if err != nil {
		return apperrors.Database(err)
	}
	if user == nil {
		return apperrors.InvalidResetToken()
	}

	passwordHash, err := util.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// UpdatePassword clears the reset token, so each token is single use.
	if err := s.userRepo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("userId", user.ID).Msg("password reset completed")
	return nil
}

func (s *AuthService) issueToken(userID, email string) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
