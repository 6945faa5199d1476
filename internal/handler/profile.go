package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/budgetwise/budgetwise-go/internal/errors"
	"github.com/budgetwise/budgetwise-go/internal/middleware"
	"github.com/budgetwise/budgetwise-go/internal/model"
	"github.com/budgetwise/budgetwise-go/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetProfile)
	r.Post("/", h.UpdateProfile)
	r.Put("/", h.UpdateProfile)

	return r
}

// GET /api/profile?userId=...
// The userId parameter defaults to the token subject; a mismatch is rejected
// so one user's token cannot read another user's profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = claims.UserID
	}
	if userID != claims.UserID {
		writeError(w, apperrors.Forbidden("Cannot access another user's profile"))
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// POST /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())

	var req struct {
		UserID             string   `json:"user_id"`
		Name               *string  `json:"name"`
		AvatarURL          *string  `json:"avatar_url"`
		SubscriptionStatus *string  `json:"subscription_status"`
		MonthlyIncome      *float64 `json:"monthly_income"`
		SavingsRate        *float64 `json:"savings_rate"`
		Currency           *string  `json:"currency"`
		Bio                *string  `json:"bio"`
		BusinessIndustry   *string  `json:"business_industry"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if req.UserID != "" && req.UserID != claims.UserID {
		writeError(w, apperrors.Forbidden("Cannot update another user's profile"))
		return
	}

	if req.SubscriptionStatus != nil &&
		*req.SubscriptionStatus != model.SubscriptionTrial &&
		*req.SubscriptionStatus != model.SubscriptionActive {
		writeError(w, apperrors.ValidationError("Invalid subscription status"))
		return
	}

	_, err := h.profileService.UpdateProfile(r.Context(), model.UpdateProfileParams{
		UserID:             claims.UserID,
		Name:               req.Name,
		AvatarURL:          req.AvatarURL,
		SubscriptionStatus: req.SubscriptionStatus,
		MonthlyIncome:      req.MonthlyIncome,
		SavingsRate:        req.SavingsRate,
		Currency:           req.Currency,
		Bio:                req.Bio,
		BusinessIndustry:   req.BusinessIndustry,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
