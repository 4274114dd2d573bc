package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/handler"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
	"github.com/Maxx-Protein/compliance-companion/mocks"
)

func TestProfileHandler_Upsert(t *testing.T) {
	svc := new(mocks.MockProfileService)
	h := handler.NewProfileHandler(svc)
	userID := uuid.New()

	svc.On("Upsert", mock.Anything, mock.MatchedBy(func(in *service.UpsertProfileInput) bool {
		return in.UserID == userID && in.BusinessName == "Maxx Protein"
	})).Return(&domain.SellerProfile{UserID: userID, BusinessName: "Maxx Protein", State: "Maharashtra"}, nil)

	c, w := newJSONContext(t, http.MethodPut, "/api/v1/profile", map[string]interface{}{
		"business_name":      "Maxx Protein",
		"registered_address": "Pune, Maharashtra",
	})
	setAuthContext(c, userID)

	h.Upsert(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Maharashtra", dataMap(t, w)["state"])
}

func TestProfileHandler_Upsert_MissingName(t *testing.T) {
	h := handler.NewProfileHandler(new(mocks.MockProfileService))

	c, w := newJSONContext(t, http.MethodPut, "/api/v1/profile", map[string]interface{}{"state": "Goa"})
	setAuthContext(c, uuid.New())

	h.Upsert(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileHandler_Get_NotFound(t *testing.T) {
	svc := new(mocks.MockProfileService)
	h := handler.NewProfileHandler(svc)
	userID := uuid.New()

	svc.On("Get", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/profile", nil)
	setAuthContext(c, userID)

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PROFILE_NOT_FOUND", decode(t, w).Error.Code)
}

func TestHealthHandler(t *testing.T) {
	healthy := handler.NewHealthHandler(map[string]handler.ReadinessCheck{
		"database": func(context.Context) error { return nil },
	})
	c, w := newJSONContext(t, http.MethodGet, "/readyz", nil)
	healthy.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	down := handler.NewHealthHandler(map[string]handler.ReadinessCheck{
		"database": func(context.Context) error { return errors.New("dial tcp: refused") },
	})
	c, w = newJSONContext(t, http.MethodGet, "/readyz", nil)
	down.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database not reachable")

	c, w = newJSONContext(t, http.MethodGet, "/healthz", nil)
	down.Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
