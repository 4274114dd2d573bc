package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Maxx-Protein/compliance-companion/internal/csvexport"
	"github.com/Maxx-Protein/compliance-companion/internal/csvimport"
	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/logger"
	"github.com/Maxx-Protein/compliance-companion/internal/metrics"
	"github.com/Maxx-Protein/compliance-companion/internal/pdf"
	"github.com/Maxx-Protein/compliance-companion/internal/port"
	"github.com/Maxx-Protein/compliance-companion/internal/tax"
)

// maxNumberAttempts bounds invoice number retries on unique violations.
const maxNumberAttempts = 5

// invoiceImportColumns must be present in an invoice import header.
var invoiceImportColumns = []string{"invoice_number", "customer_name", "customer_state"}

// importedLineName labels the single line item synthesised for an imported
// invoice.
const importedLineName = "Imported sale"

// InvoiceInput holds the user-editable fields of an invoice.
type InvoiceInput struct {
	UserID         uuid.UUID
	InvoiceDate    *time.Time
	CustomerName   string
	CustomerGSTIN  string
	CustomerState  string
	PlaceOfSupply  string
	Items          []domain.LineItem
	DiscountAmount float64
	InvoiceStatus  domain.InvoiceStatus
	PaymentStatus  domain.PaymentStatus
	Notes          string
}

// UpdateInvoiceInput is the DTO for updating a draft invoice.
type UpdateInvoiceInput struct {
	InvoiceID uuid.UUID
	InvoiceInput
}

// InvoiceResult is a saved invoice with the advisory warnings raised while
// computing it.
type InvoiceResult struct {
	Invoice  *domain.Invoice `json:"invoice"`
	Warnings []tax.Warning   `json:"warnings"`
}

// InvoicePDF is a rendered invoice document.
type InvoicePDF struct {
	Filename string
	Content  []byte
}

// InvoiceService defines the invoice management contract.
type InvoiceService interface {
	Create(ctx context.Context, input *InvoiceInput) (*InvoiceResult, error)
	Update(ctx context.Context, input *UpdateInvoiceInput) (*InvoiceResult, error)
	GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error)
	ExportCSV(ctx context.Context, userID uuid.UUID, w io.Writer) error
	ImportCSV(ctx context.Context, userID uuid.UUID, r io.Reader) (*ImportResult, error)
	RenderPDF(ctx context.Context, userID, invoiceID uuid.UUID) (*InvoicePDF, error)
}

type invoiceService struct {
	invoiceRepo port.InvoiceRepository
	profileRepo port.SellerProfileRepository
	productRepo port.ProductRepository
	metrics     *metrics.Metrics
	loc         *time.Location
	now         func() time.Time
	log         zerolog.Logger
}

// NewInvoiceService creates a new InvoiceService implementation. Invoice dates
// default to the current day in loc.
func NewInvoiceService(
	invoiceRepo port.InvoiceRepository,
	profileRepo port.SellerProfileRepository,
	productRepo port.ProductRepository,
	m *metrics.Metrics,
	loc *time.Location,
) InvoiceService {
	if loc == nil {
		loc = time.UTC
	}
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		profileRepo: profileRepo,
		productRepo: productRepo,
		metrics:     m,
		loc:         loc,
		now:         time.Now,
		log:         logger.WithComponent("invoice_service"),
	}
}

func (s *invoiceService) Create(ctx context.Context, input *InvoiceInput) (*InvoiceResult, error) {
	inv := &domain.Invoice{
		ID:     uuid.New(),
		UserID: input.UserID,
	}
	warnings, err := s.apply(ctx, inv, input)
	if err != nil {
		return nil, err
	}

	count, err := s.invoiceRepo.CountByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("counting invoices: %w", err)
	}
	for attempt := 1; ; attempt++ {
		inv.InvoiceNumber = invoiceNumber(count + attempt)
		err = s.invoiceRepo.Create(ctx, inv)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateInvoice) || attempt == maxNumberAttempts {
			return nil, err
		}
		s.log.Debug().Str("invoice_number", inv.InvoiceNumber).Msg("invoice number taken, retrying")
	}

	s.log.Info().
		Str("user_id", inv.UserID.String()).
		Str("invoice_number", inv.InvoiceNumber).
		Float64("total_amount", inv.TotalAmount).
		Msg("invoice created")
	return &InvoiceResult{Invoice: inv, Warnings: warnings}, nil
}

func (s *invoiceService) Update(ctx context.Context, input *UpdateInvoiceInput) (*InvoiceResult, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, input.UserID, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.InvoiceStatus == domain.InvoiceStatusIssued {
		return nil, domain.ErrInvoiceImmutable
	}

	warnings, err := s.apply(ctx, inv, &input.InvoiceInput)
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: inv, Warnings: warnings}, nil
}

func (s *invoiceService) GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, userID, invoiceID)
}

func (s *invoiceService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error) {
	return s.invoiceRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *invoiceService) ExportCSV(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	invoices, err := s.invoiceRepo.ListAllByUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("writing bom: %w", err)
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	if err := cw.WriteInvoices(invoices); err != nil {
		return fmt.Errorf("writing csv rows: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func (s *invoiceService) RenderPDF(ctx context.Context, userID, invoiceID uuid.UUID) (*InvoicePDF, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	content, err := pdf.RenderInvoice(inv, profile)
	if err != nil {
		return nil, err
	}
	return &InvoicePDF{
		Filename: csvexport.SanitizeFilename(inv.InvoiceNumber) + ".pdf",
		Content:  content,
	}, nil
}

// apply validates input, resolves jurisdiction and writes computed totals
// onto inv.
func (s *invoiceService) apply(ctx context.Context, inv *domain.Invoice, input *InvoiceInput) ([]tax.Warning, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, domain.ErrMissingCustomer
	}
	if len(input.Items) == 0 {
		return nil, domain.ErrNoLineItems
	}

	status := input.InvoiceStatus
	if status == "" {
		status = domain.InvoiceStatusDraft
	}
	if !domain.ValidInvoiceStatuses[status] {
		return nil, fmt.Errorf("invoice status %q: %w", status, domain.ErrInvalidStatus)
	}
	payment := input.PaymentStatus
	if payment == "" {
		payment = domain.PaymentStatusUnpaid
	}
	if !domain.ValidPaymentStatuses[payment] {
		return nil, fmt.Errorf("payment status %q: %w", payment, domain.ErrInvalidStatus)
	}

	sellerState, err := s.sellerState(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	items := make(domain.LineItems, len(input.Items))
	copy(items, input.Items)
	if err := s.fillFromCatalog(ctx, input.UserID, items); err != nil {
		return nil, err
	}

	inv.CustomerName = strings.TrimSpace(input.CustomerName)
	inv.CustomerGSTIN = strings.ToUpper(strings.TrimSpace(input.CustomerGSTIN))
	inv.CustomerState = strings.TrimSpace(input.CustomerState)
	inv.PlaceOfSupply = strings.TrimSpace(input.PlaceOfSupply)
	if inv.PlaceOfSupply == "" {
		inv.PlaceOfSupply = inv.CustomerState
	}
	inv.SellerState = sellerState

	if err := setTotals(inv, items, input.DiscountAmount); err != nil {
		return nil, err
	}
	inv.PaymentStatus = payment
	inv.Notes = input.Notes

	now := s.now().In(s.loc)
	if input.InvoiceDate != nil {
		inv.InvoiceDate = *input.InvoiceDate
	} else if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	}
	inv.InvoiceStatus = status
	if status == domain.InvoiceStatusIssued && inv.IssuedAt == nil {
		issued := now.UTC()
		inv.IssuedAt = &issued
	}

	warnings := []tax.Warning{}
	if w := tax.CheckInvoiceTotal(inv.TotalAmount); w != nil {
		warnings = append(warnings, *w)
	}
	s.metrics.ObserveCalculation(metrics.CalculatorInvoice, warnings)
	return warnings, nil
}

// setTotals runs the engine over items and stores the line amounts and
// header figures on inv.
func setTotals(inv *domain.Invoice, items domain.LineItems, discount float64) error {
	totals, err := tax.CalculateInvoice(items, discount, tax.IsInterstate(inv.SellerState, inv.SupplyState()))
	if err != nil {
		return err
	}
	for i := range items {
		items[i].Amount = totals.Lines[i].Amount
	}

	inv.Items = items
	inv.Subtotal = totals.Subtotal
	inv.CGSTAmount = totals.CGST
	inv.SGSTAmount = totals.SGST
	inv.IGSTAmount = totals.IGST
	inv.DiscountAmount = totals.Discount
	inv.TCSDeducted = totals.TCS
	inv.TotalAmount = totals.Total
	return nil
}

// fillFromCatalog copies product details into items that reference a catalog
// product. Fields the caller already set are kept. Unknown products are
// reported per item.
func (s *invoiceService) fillFromCatalog(ctx context.Context, userID uuid.UUID, items domain.LineItems) error {
	var itemErrs tax.ItemErrors
	seen := make(map[uuid.UUID]*domain.Product)
	for i := range items {
		item := &items[i]
		if item.ProductID == nil {
			continue
		}
		p, ok := seen[*item.ProductID]
		if !ok {
			var err error
			p, err = s.productRepo.GetByID(ctx, userID, *item.ProductID)
			if errors.Is(err, domain.ErrProductNotFound) {
				itemErrs = append(itemErrs, &tax.ItemError{Index: i, Err: err})
				continue
			}
			if err != nil {
				return err
			}
			seen[*item.ProductID] = p
		}

		if strings.TrimSpace(item.ProductName) == "" {
			item.ProductName = p.ProductName
		}
		if strings.TrimSpace(item.HSNCode) == "" {
			item.HSNCode = p.HSNCode
		}
		if strings.TrimSpace(item.GSTRate) == "" {
			item.GSTRate = p.GSTRate
		}
		if item.Rate == 0 && p.UnitPrice != nil {
			item.Rate = *p.UnitPrice
		}
	}
	if len(itemErrs) > 0 {
		return itemErrs
	}
	return nil
}

// ImportCSV stores one issued, unpaid invoice per valid row. Each row becomes
// a single line item priced at the row subtotal; the tax split is recomputed
// from the seller and customer states. The rate comes from the gst_rate
// column or, when that is absent, from the slab matching the row's tax
// figures. Rows that cannot be priced or whose invoice number already exists
// are skipped.
func (s *invoiceService) ImportCSV(ctx context.Context, userID uuid.UUID, r io.Reader) (*ImportResult, error) {
	reader, err := csvimport.NewReader(r, invoiceImportColumns...)
	if err != nil {
		return nil, err
	}
	sellerState, err := s.sellerState(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	issued := now.UTC()

	result := &ImportResult{Skipped: []csvimport.RowError{}}
	for {
		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		inv, msg := s.invoiceFromRow(row, userID, sellerState, today)
		if inv == nil {
			result.skip(row.Line, msg)
			continue
		}
		inv.IssuedAt = &issued

		if err := s.invoiceRepo.Create(ctx, inv); err != nil {
			if errors.Is(err, domain.ErrDuplicateInvoice) {
				result.skip(row.Line, err.Error())
				continue
			}
			return nil, err
		}
		s.metrics.ObserveCalculation(metrics.CalculatorInvoice, nil)
		result.Imported++
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Int("imported", result.Imported).
		Int("skipped", len(result.Skipped)).
		Msg("invoice csv imported")
	if result.Imported == 0 {
		return result, domain.ErrNoValidRows
	}
	return result, nil
}

// invoiceFromRow builds an invoice from one import row, or returns the reason
// the row was rejected.
func (s *invoiceService) invoiceFromRow(row csvimport.Row, userID uuid.UUID, sellerState string, today time.Time) (*domain.Invoice, string) {
	number := row.Get("invoice_number")
	customer := row.Get("customer_name")
	state := row.Get("customer_state")
	if number == "" || customer == "" || state == "" {
		return nil, "invoice_number, customer_name and customer_state are required"
	}

	subtotal, ok, err := row.Float("subtotal")
	if err != nil {
		return nil, err.Error()
	}
	if !ok {
		return nil, "subtotal is required"
	}
	if subtotal < 0 {
		return nil, domain.ErrNegativeAmount.Error()
	}

	var gst float64
	for _, col := range []string{"cgst_amount", "sgst_amount", "igst_amount"} {
		v, _, err := row.Float(col)
		if err != nil {
			return nil, err.Error()
		}
		gst += v
	}

	var rate tax.Rate
	if raw := row.Get("gst_rate"); raw != "" {
		rate, err = tax.ParseRate(raw)
		if err != nil {
			return nil, err.Error()
		}
	} else if rate, ok = tax.InferRate(subtotal, gst); !ok {
		return nil, "gst rate missing and tax amounts match no GST slab"
	}

	discount, _, err := row.Float("discount_amount")
	if err != nil {
		return nil, err.Error()
	}

	date := today
	if raw := row.Get("invoice_date"); raw != "" {
		date, err = time.ParseInLocation("2006-01-02", raw, s.loc)
		if err != nil {
			return nil, fmt.Sprintf("invoice_date: %q is not YYYY-MM-DD", raw)
		}
	}

	inv := &domain.Invoice{
		ID:            uuid.New(),
		UserID:        userID,
		InvoiceNumber: number,
		InvoiceDate:   date,
		CustomerName:  customer,
		CustomerGSTIN: strings.ToUpper(row.Get("customer_gstin")),
		CustomerState: state,
		PlaceOfSupply: row.Get("place_of_supply"),
		SellerState:   sellerState,
		InvoiceStatus: domain.InvoiceStatusIssued,
		PaymentStatus: domain.PaymentStatusUnpaid,
		Notes:         row.Get("notes"),
	}
	if inv.PlaceOfSupply == "" {
		inv.PlaceOfSupply = state
	}

	items := domain.LineItems{{
		ProductName: importedLineName,
		Quantity:    1,
		Rate:        subtotal,
		GSTRate:     rate.String(),
	}}
	if err := setTotals(inv, items, discount); err != nil {
		return nil, err.Error()
	}
	return inv, ""
}

// sellerState prefers the explicit profile state and falls back to the first
// state named in the registered address. A missing profile yields "", which
// the engine treats as intrastate.
func (s *invoiceService) sellerState(ctx context.Context, userID uuid.UUID) (string, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return "", nil
		}
		return "", err
	}
	if state := strings.TrimSpace(profile.State); state != "" {
		return state, nil
	}
	return tax.StateFromAddress(profile.RegisteredAddress), nil
}

func invoiceNumber(n int) string {
	return fmt.Sprintf("INV-%04d", n)
}
