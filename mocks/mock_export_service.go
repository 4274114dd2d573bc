package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Maxx-Protein/compliance-companion/internal/report"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) SummaryWorkbook(ctx context.Context, userID uuid.UUID, filter report.Filter) (*service.Workbook, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Workbook), args.Error(1)
}

func (m *MockExportService) Archive(ctx context.Context, userID uuid.UUID, filter report.Filter) (*service.ArchiveResult, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArchiveResult), args.Error(1)
}
