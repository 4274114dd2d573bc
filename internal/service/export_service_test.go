package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/port"
	"github.com/Maxx-Protein/compliance-companion/internal/report"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
	"github.com/Maxx-Protein/compliance-companion/internal/xlsxexport"
	"github.com/Maxx-Protein/compliance-companion/mocks"
)

func TestExportService_SummaryWorkbook(t *testing.T) {
	summaries := new(mocks.MockSummaryService)
	svc := service.NewExportService(summaries, nil, "", 0)
	userID := uuid.New()
	filter := report.Filter{Year: 2024, Month: 3}

	summaries.On("Summary", mock.Anything, userID, filter).
		Return(&report.Summary{Filter: filter, GSTR1: report.GSTR1Summary{TotalInvoices: 3}}, nil)

	wb, err := svc.SummaryWorkbook(context.Background(), userID, filter)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(wb.Filename, "gst_summary_2024-03_"))
	assert.True(t, strings.HasSuffix(wb.Filename, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(wb.Content))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	v, err := f.GetCellValue(xlsxexport.SheetGSTR1, "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestExportService_Archive(t *testing.T) {
	summaries := new(mocks.MockSummaryService)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewExportService(summaries, storage, "gst-archive", 600)
	userID := uuid.New()
	filter := report.Filter{Year: 2024}

	summaries.On("Summary", mock.Anything, userID, filter).Return(&report.Summary{Filter: filter}, nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "gst-archive" &&
			strings.HasPrefix(in.Key, "reports/"+userID.String()+"/2024/") &&
			in.ContentType == xlsxexport.ContentType &&
			in.Metadata["period"] == "2024"
	})).Return(&port.UploadOutput{Location: "s3://gst-archive/x"}, nil)
	storage.On("GetPresignedURL", mock.Anything, "gst-archive", mock.AnythingOfType("string"), int64(600)).
		Return("https://example.test/signed", nil)

	res, err := svc.Archive(context.Background(), userID, filter)

	require.NoError(t, err)
	assert.Equal(t, "https://example.test/signed", res.URL)
	assert.Equal(t, int64(600), res.ExpiresIn)
	assert.Equal(t, "s3://gst-archive/x", res.Location)
	storage.AssertExpectations(t)
}

func TestExportService_ArchiveDisabled(t *testing.T) {
	svc := service.NewExportService(new(mocks.MockSummaryService), nil, "", 0)

	_, err := svc.Archive(context.Background(), uuid.New(), report.Filter{})

	assert.ErrorIs(t, err, domain.ErrArchiveDisabled)
}

func TestExportService_ArchiveUploadFails(t *testing.T) {
	summaries := new(mocks.MockSummaryService)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewExportService(summaries, storage, "gst-archive", 0)
	userID := uuid.New()

	summaries.On("Summary", mock.Anything, userID, mock.Anything).Return(&report.Summary{}, nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := svc.Archive(context.Background(), userID, report.Filter{AsOf: time.Now()})

	assert.Error(t, err)
	storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExportService_ArchivePresignFailsRemovesObject(t *testing.T) {
	summaries := new(mocks.MockSummaryService)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewExportService(summaries, storage, "gst-archive", 0)
	userID := uuid.New()
	var uploadedKey string

	summaries.On("Summary", mock.Anything, userID, mock.Anything).Return(&report.Summary{}, nil)
	storage.On("Upload", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { uploadedKey = args.Get(1).(port.UploadInput).Key }).
		Return(&port.UploadOutput{Location: "s3://gst-archive/x"}, nil)
	storage.On("GetPresignedURL", mock.Anything, "gst-archive", mock.AnythingOfType("string"), int64(3600)).
		Return("", errors.New("signing failed"))
	storage.On("Delete", mock.Anything, "gst-archive", mock.AnythingOfType("string")).Return(nil)

	_, err := svc.Archive(context.Background(), userID, report.Filter{Year: 2024})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "presigning archive")
	storage.AssertCalled(t, "Delete", mock.Anything, "gst-archive", uploadedKey)
}
