package service

import (
	"context"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/metrics"
	"github.com/Maxx-Protein/compliance-companion/internal/tax"
)

// GSTInput is the DTO for the standalone GST calculator.
type GSTInput struct {
	BaseAmount    float64
	GSTRate       string
	SellerState   string
	CustomerState string
}

// TCSInput is the DTO for the standalone TCS calculator.
type TCSInput struct {
	SaleAmount float64
	Online     bool
}

// InvoicePreviewInput is the DTO for computing invoice totals without saving.
type InvoicePreviewInput struct {
	Items         []domain.LineItem
	Discount      float64
	SellerState   string
	CustomerState string
}

// InvoicePreview carries computed invoice totals and advisory warnings.
type InvoicePreview struct {
	Totals   *tax.InvoiceTotals `json:"totals"`
	Warnings []tax.Warning      `json:"warnings"`
}

// CalculatorService runs the stateless tax calculators.
type CalculatorService interface {
	GST(ctx context.Context, input GSTInput) (*tax.GSTQuote, error)
	TCS(ctx context.Context, input TCSInput) (*tax.TCSResult, error)
	ITC(ctx context.Context, input tax.ITCInput) (*tax.ITCResult, error)
	PnL(ctx context.Context, input tax.PnLInput) (*tax.PnLResult, error)
	Invoice(ctx context.Context, input *InvoicePreviewInput) (*InvoicePreview, error)
}

type calculatorService struct {
	metrics *metrics.Metrics
}

// NewCalculatorService creates a new CalculatorService. m may be nil.
func NewCalculatorService(m *metrics.Metrics) CalculatorService {
	return &calculatorService{metrics: m}
}

func (s *calculatorService) GST(_ context.Context, input GSTInput) (*tax.GSTQuote, error) {
	rate, err := tax.ParseRate(input.GSTRate)
	if err != nil {
		return nil, err
	}
	quote, err := tax.CalculateGST(input.BaseAmount, rate, input.SellerState, input.CustomerState)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveCalculation(metrics.CalculatorGST, nil)
	return quote, nil
}

func (s *calculatorService) TCS(_ context.Context, input TCSInput) (*tax.TCSResult, error) {
	res, err := tax.CalculateTCS(input.SaleAmount, input.Online)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveCalculation(metrics.CalculatorTCS, nil)
	return res, nil
}

func (s *calculatorService) ITC(_ context.Context, input tax.ITCInput) (*tax.ITCResult, error) {
	res, err := tax.CalculateITC(input)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveCalculation(metrics.CalculatorITC, res.Warnings)
	return res, nil
}

func (s *calculatorService) PnL(_ context.Context, input tax.PnLInput) (*tax.PnLResult, error) {
	res, err := tax.CalculatePnL(input)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveCalculation(metrics.CalculatorPnL, res.Warnings)
	return res, nil
}

// Invoice rejects the whole preview when any line item is invalid; the
// returned error is a tax.ItemErrors naming each bad item.
func (s *calculatorService) Invoice(_ context.Context, input *InvoicePreviewInput) (*InvoicePreview, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrNoLineItems
	}
	interstate := tax.IsInterstate(input.SellerState, input.CustomerState)
	totals, err := tax.CalculateInvoice(input.Items, input.Discount, interstate)
	if err != nil {
		return nil, err
	}

	warnings := []tax.Warning{}
	if w := tax.CheckInvoiceTotal(totals.Total); w != nil {
		warnings = append(warnings, *w)
	}
	s.metrics.ObserveCalculation(metrics.CalculatorInvoice, warnings)
	return &InvoicePreview{Totals: totals, Warnings: warnings}, nil
}
