package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Maxx-Protein/compliance-companion/internal/report"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
	"github.com/Maxx-Protein/compliance-companion/internal/xlsxexport"
)

// ReportHandler handles period summary endpoints.
type ReportHandler struct {
	summaryService service.SummaryService
	exportService  service.ExportService
	loc            *time.Location
	now            func() time.Time
}

// NewReportHandler creates a new ReportHandler. as_of dates are read in loc.
func NewReportHandler(summaryService service.SummaryService, exportService service.ExportService, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{
		summaryService: summaryService,
		exportService:  exportService,
		loc:            loc,
		now:            time.Now,
	}
}

// parseFilter extracts the period filter from query params. Absent year or
// month means any; as_of defaults to now.
func (h *ReportHandler) parseFilter(c *gin.Context) (report.Filter, error) {
	var f report.Filter
	if s := c.Query("year"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			return f, fmt.Errorf("invalid 'year': must be a number")
		}
		f.Year = year
	}
	if s := c.Query("month"); s != "" {
		month, err := strconv.Atoi(s)
		if err != nil {
			return f, fmt.Errorf("invalid 'month': must be 1-12")
		}
		f.Month = month
	}
	if s := c.Query("as_of"); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, h.loc)
		if err != nil {
			return f, fmt.Errorf("invalid 'as_of' date: must be YYYY-MM-DD")
		}
		f.AsOf = t
	} else {
		f.AsOf = h.now().In(h.loc)
	}
	return f, nil
}

// Summary handles GET /api/v1/reports/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	f, err := h.parseFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	summary, err := h.summaryService.Summary(c.Request.Context(), userID, f)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}

// Export handles GET /api/v1/reports/export
func (h *ReportHandler) Export(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	f, err := h.parseFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	wb, err := h.exportService.SummaryWorkbook(c.Request.Context(), userID, f)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, wb.Filename))
	c.Data(http.StatusOK, xlsxexport.ContentType, wb.Content)
}

// Archive handles POST /api/v1/reports/archive
func (h *ReportHandler) Archive(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	f, err := h.parseFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.exportService.Archive(c.Request.Context(), userID, f)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, res)
}
