package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
)

// maxImportBytes caps the size of an uploaded CSV.
const maxImportBytes = 5 << 20

// uploadedCSV opens the multipart "file" field. The caller closes the file.
func uploadedCSV(c *gin.Context) (multipart.File, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return nil, false
	}
	return file, true
}

// respondImport writes the import summary. When no row could be imported the
// skipped rows are returned with the error so the caller can fix the file.
func respondImport(c *gin.Context, res *service.ImportResult, err error) {
	if errors.Is(err, domain.ErrNoValidRows) && res != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   &APIError{Code: "NO_VALID_ROWS", Message: err.Error(), Rows: res.Skipped},
		})
		return
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, res)
}
