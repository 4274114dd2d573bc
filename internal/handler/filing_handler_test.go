package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/handler"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
	"github.com/Maxx-Protein/compliance-companion/internal/tax"
	"github.com/Maxx-Protein/compliance-companion/mocks"
)

func TestFilingHandler_Upsert(t *testing.T) {
	svc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(svc)
	userID := uuid.New()

	svc.On("Upsert", mock.Anything, mock.MatchedBy(func(in *service.UpsertFilingInput) bool {
		return in.UserID == userID && in.FinancialMonth == "2024-03" && in.GSTLiability == 1200
	})).Return(&service.FilingResult{
		Filing:   &domain.FilingRecord{FinancialMonth: "2024-03", FilingStatus: domain.FilingStatusPending},
		Warnings: []tax.Warning{{Code: tax.WarningGSTR3BMismatch}},
	}, nil)

	c, w := newJSONContext(t, http.MethodPut, "/api/v1/filings/2024-03", map[string]interface{}{
		"gst_liability": 1200,
		"itc_claimed":   700,
		"net_payable":   450,
	})
	c.Params = gin.Params{{Key: "month", Value: "2024-03"}}
	setAuthContext(c, userID)

	h.Upsert(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, w)
	assert.Len(t, data["warnings"], 1)
}

func TestFilingHandler_Upsert_InvalidMonth(t *testing.T) {
	svc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(svc)
	userID := uuid.New()

	svc.On("Upsert", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidMonth)

	c, w := newJSONContext(t, http.MethodPut, "/api/v1/filings/March", map[string]interface{}{})
	c.Params = gin.Params{{Key: "month", Value: "March"}}
	setAuthContext(c, userID)

	h.Upsert(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFilingHandler_UpdateStatus(t *testing.T) {
	svc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(svc)
	userID := uuid.New()

	svc.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(in *service.UpdateFilingStatusInput) bool {
		return in.ReturnType == domain.ReturnGSTR3B && in.Filed && in.FinancialMonth == "2024-03"
	})).Return(&domain.FilingRecord{GSTR3BFiled: true, FilingStatus: domain.FilingStatusPartial}, nil)

	c, w := newJSONContext(t, http.MethodPatch, "/api/v1/filings/2024-03/status", map[string]interface{}{
		"return_type": "gstr_3b",
		"filed":       true,
	})
	c.Params = gin.Params{{Key: "month", Value: "2024-03"}}
	setAuthContext(c, userID)

	h.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, dataMap(t, w)["gstr_3b_filed"])
}

func TestFilingHandler_UpdateStatus_MissingReturnType(t *testing.T) {
	h := handler.NewFilingHandler(new(mocks.MockFilingService))

	c, w := newJSONContext(t, http.MethodPatch, "/", map[string]interface{}{"filed": true})
	c.Params = gin.Params{{Key: "month", Value: "2024-03"}}
	setAuthContext(c, uuid.New())

	h.UpdateStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFilingHandler_Get_NotFound(t *testing.T) {
	svc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(svc)
	userID := uuid.New()

	svc.On("Get", mock.Anything, userID, "2024-05").Return(nil, domain.ErrFilingNotFound)

	c, w := newJSONContext(t, http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "month", Value: "2024-05"}}
	setAuthContext(c, userID)

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFilingHandler_List(t *testing.T) {
	svc := new(mocks.MockFilingService)
	h := handler.NewFilingHandler(svc)
	userID := uuid.New()

	svc.On("List", mock.Anything, userID).Return([]domain.FilingRecord{{FinancialMonth: "2024-03"}}, nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/filings", nil)
	setAuthContext(c, userID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data, 1)
}
