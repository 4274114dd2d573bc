package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Maxx-Protein/compliance-companion/internal/csvimport"
	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/middleware"
	"github.com/Maxx-Protein/compliance-companion/internal/tax"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Details []ItemDetail         `json:"details,omitempty"`
	Rows    []csvimport.RowError `json:"rows,omitempty"`
}

// ItemDetail names one rejected line item.
type ItemDetail struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, "INVOICE_NOT_FOUND", "invoice not found"
	case errors.Is(err, domain.ErrFilingNotFound):
		return http.StatusNotFound, "FILING_NOT_FOUND", "no filing record for this month"
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "PROFILE_NOT_FOUND", "seller profile not found"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvoiceImmutable):
		return http.StatusConflict, "INVOICE_IMMUTABLE", "issued invoices cannot be modified"
	case errors.Is(err, domain.ErrDuplicateInvoice):
		return http.StatusConflict, "DUPLICATE_INVOICE", "invoice number already exists"
	case errors.Is(err, domain.ErrArchiveDisabled):
		return http.StatusServiceUnavailable, "ARCHIVE_DISABLED", "report archiving is not configured"
	case errors.Is(err, domain.ErrNegativeQuantity),
		errors.Is(err, domain.ErrNegativeRate),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrNegativeDiscount),
		errors.Is(err, domain.ErrInvalidGSTRate),
		errors.Is(err, domain.ErrNoLineItems),
		errors.Is(err, domain.ErrMissingCustomer),
		errors.Is(err, domain.ErrMissingProduct),
		errors.Is(err, domain.ErrEmptyCSV),
		errors.Is(err, domain.ErrMalformedCSV),
		errors.Is(err, domain.ErrMissingColumns),
		errors.Is(err, domain.ErrNoValidRows),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrInvalidReturnType),
		errors.Is(err, domain.ErrInvalidPeriod):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractUserID extracts the user ID from the request context.
// Returns false if auth context is missing (error response already written).
func extractUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, false
	}
	return userID, true
}

// HandleError maps a domain error and sends the appropriate error response.
// Rejected line items are listed individually.
func HandleError(c *gin.Context, err error) {
	var itemErrs tax.ItemErrors
	if errors.As(err, &itemErrs) {
		details := make([]ItemDetail, len(itemErrs))
		for i, ie := range itemErrs {
			details[i] = ItemDetail{Index: ie.Index, Message: ie.Err.Error()}
		}
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   &APIError{Code: "INVALID_LINE_ITEMS", Message: "one or more line items are invalid", Details: details},
		})
		return
	}

	status, code, msg := MapDomainError(err)
	if status >= 500 {
		log := middleware.RequestLogger(c)
		log.Error().Err(err).Msg("internal error")
	}
	RespondError(c, status, code, msg)
}

// parsePagination reads offset and limit query params, clamping limit to 100.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
