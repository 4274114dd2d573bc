package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Maxx-Protein/compliance-companion/internal/csvexport"
	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/logger"
	"github.com/Maxx-Protein/compliance-companion/internal/port"
	"github.com/Maxx-Protein/compliance-companion/internal/report"
	s3storage "github.com/Maxx-Protein/compliance-companion/internal/storage/s3"
	"github.com/Maxx-Protein/compliance-companion/internal/xlsxexport"
)

const defaultPresignExpiry = int64(3600)

// Workbook is a rendered summary spreadsheet.
type Workbook struct {
	Filename string
	Content  []byte
}

// ArchiveResult describes a summary workbook stored in object storage.
type ArchiveResult struct {
	Key       string `json:"key"`
	Location  string `json:"location"`
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}

// ExportService renders period summaries as spreadsheets and archives them.
type ExportService interface {
	SummaryWorkbook(ctx context.Context, userID uuid.UUID, filter report.Filter) (*Workbook, error)
	Archive(ctx context.Context, userID uuid.UUID, filter report.Filter) (*ArchiveResult, error)
}

type exportService struct {
	summaries     SummaryService
	storage       port.ObjectStorage
	bucket        string
	presignExpiry int64
	now           func() time.Time
	log           zerolog.Logger
}

// NewExportService creates a new ExportService. A nil storage disables Archive.
func NewExportService(summaries SummaryService, storage port.ObjectStorage, bucket string, presignExpiry int64) ExportService {
	if presignExpiry <= 0 {
		presignExpiry = defaultPresignExpiry
	}
	return &exportService{
		summaries:     summaries,
		storage:       storage,
		bucket:        bucket,
		presignExpiry: presignExpiry,
		now:           time.Now,
		log:           logger.WithComponent("export_service"),
	}
}

func (s *exportService) SummaryWorkbook(ctx context.Context, userID uuid.UUID, filter report.Filter) (*Workbook, error) {
	summary, err := s.summaries.Summary(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := xlsxexport.WriteSummary(&buf, summary); err != nil {
		return nil, err
	}
	return &Workbook{
		Filename: csvexport.BuildFilename("gst_summary_"+filter.Key(), "xlsx", s.now()),
		Content:  buf.Bytes(),
	}, nil
}

func (s *exportService) Archive(ctx context.Context, userID uuid.UUID, filter report.Filter) (*ArchiveResult, error) {
	if s.storage == nil {
		return nil, domain.ErrArchiveDisabled
	}
	wb, err := s.SummaryWorkbook(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	key := s3storage.ArchiveKey(userID, filter.Key(), "xlsx", s.now())
	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(wb.Content),
		ContentType: xlsxexport.ContentType,
		Size:        int64(len(wb.Content)),
		Metadata: map[string]string{
			"user-id": userID.String(),
			"period":  filter.Key(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("archiving summary: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.bucket, key, s.presignExpiry)
	if err != nil {
		// nothing references the object without a URL
		if delErr := s.storage.Delete(ctx, s.bucket, key); delErr != nil {
			s.log.Error().Err(delErr).Str("key", key).Msg("failed to remove unreachable archive")
		}
		return nil, fmt.Errorf("presigning archive: %w", err)
	}

	s.log.Info().Str("user_id", userID.String()).Str("key", key).Msg("summary archived")
	return &ArchiveResult{Key: key, Location: out.Location, URL: url, ExpiresIn: s.presignExpiry}, nil
}
