package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetwise/budgetwise-go/internal/middleware"
	"github.com/budgetwise/budgetwise-go/internal/model"
	"github.com/budgetwise/budgetwise-go/internal/service"
)

func newTestProfileHandler() (*ProfileHandler, *fakeProfileRepo) {
	profiles := &fakeProfileRepo{byUserID: map[string]*model.Profile{
		"u-1": {UserID: "u-1", Email: "user@example.com", SubscriptionStatus: model.SubscriptionTrial, Currency: "USD"},
	}}
	return NewProfileHandler(service.NewProfileService(profiles)), profiles
}

func asUser(req *http.Request, userID, email string) *http.Request {
	claims := &service.TokenClaims{UserID: userID, Email: email}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func TestProfileHandlerGet(t *testing.T) {
	handler, _ := newTestProfileHandler()
	routes := handler.Routes()

	t.Run("defaults to the token subject", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/", nil), "u-1", "user@example.com")
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var profile model.Profile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
		assert.Equal(t, "u-1", profile.UserID)
		assert.Equal(t, "USD", profile.Currency)
	})

	t.Run("cannot read another user's profile", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/?userId=u-2", nil), "u-1", "user@example.com")
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing profile is a 404", func(t *testing.T) {
		handler, repo := newTestProfileHandler()
		delete(repo.byUserID, "u-1")

		req := asUser(httptest.NewRequest(http.MethodGet, "/", nil), "u-1", "user@example.com")
		rec := httptest.NewRecorder()
		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProfileHandlerUpdate(t *testing.T) {
	update := func(t *testing.T, routes http.Handler, userID string, body map[string]any) *httptest.ResponseRecorder {
		t.Helper()

		payload, err := json.Marshal(body)
		require.NoError(t, err)

		req := asUser(httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload)), userID, "user@example.com")
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)
		return rec
	}

	t.Run("partial update forwards only provided fields", func(t *testing.T) {
		handler, repo := newTestProfileHandler()

		rec := update(t, handler.Routes(), "u-1", map[string]any{
			"name":           "Anna",
			"monthly_income": 6200,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])

		require.NotNil(t, repo.upserted)
		assert.Equal(t, "u-1", repo.upserted.UserID)
		require.NotNil(t, repo.upserted.Name)
		assert.Equal(t, "Anna", *repo.upserted.Name)
		require.NotNil(t, repo.upserted.MonthlyIncome)
		assert.Equal(t, 6200.0, *repo.upserted.MonthlyIncome)
		assert.Nil(t, repo.upserted.Currency)
		assert.Nil(t, repo.upserted.Bio)
	})

	t.Run("cannot update another user's profile", func(t *testing.T) {
		handler, repo := newTestProfileHandler()

		rec := update(t, handler.Routes(), "u-1", map[string]any{
			"user_id": "u-2",
			"name":    "Mallory",
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Nil(t, repo.upserted)
	})

	t.Run("unknown subscription status rejected", func(t *testing.T) {
		handler, repo := newTestProfileHandler()

		rec := update(t, handler.Routes(), "u-1", map[string]any{
			"subscription_status": "lifetime",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, repo.upserted)
	})

	t.Run("status may move between trial and active", func(t *testing.T) {
		handler, repo := newTestProfileHandler()

		rec := update(t, handler.Routes(), "u-1", map[string]any{
			"subscription_status": "active",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, repo.upserted.SubscriptionStatus)
		assert.Equal(t, "active", *repo.upserted.SubscriptionStatus)
	})
}
