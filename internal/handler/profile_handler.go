package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Maxx-Protein/compliance-companion/internal/service"
)

// ProfileHandler handles the seller profile endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type profileRequest struct {
	BusinessName      string `json:"business_name" binding:"required"`
	GSTIN             string `json:"gstin"`
	RegisteredAddress string `json:"registered_address"`
	State             string `json:"state"`
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	p, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, p)
}

// Upsert handles PUT /api/v1/profile
func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	p, err := h.profileService.Upsert(c.Request.Context(), &service.UpsertProfileInput{
		UserID:            userID,
		BusinessName:      req.BusinessName,
		GSTIN:             req.GSTIN,
		RegisteredAddress: req.RegisteredAddress,
		State:             req.State,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, p)
}
