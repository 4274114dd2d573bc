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
	"github.com/Maxx-Protein/compliance-companion/internal/port"
	"github.com/Maxx-Protein/compliance-companion/internal/tax"
)

// defaultProductRate applies when a product is saved without a GST rate.
const defaultProductRate = tax.Rate18

var productImportColumns = []string{"product_name", "hsn_code", "gst_rate"}

// ProductInput holds the editable fields of a catalog product.
type ProductInput struct {
	UserID               uuid.UUID
	ProductName          string
	HSNCode              string
	GSTRate              string
	UnitPrice            *float64
	Category             string
	SKU                  string
	BISCertified         bool
	BISCertificateNumber string
	BISExpiryDate        *time.Time
}

// UpdateProductInput is the DTO for editing a catalog product.
type UpdateProductInput struct {
	ProductID uuid.UUID
	ProductInput
}

// ProductService manages the product catalog.
type ProductService interface {
	Create(ctx context.Context, input *ProductInput) (*domain.Product, error)
	Update(ctx context.Context, input *UpdateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, userID, productID uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Product, int, error)
	Delete(ctx context.Context, userID, productID uuid.UUID) error
	ExportCSV(ctx context.Context, userID uuid.UUID, w io.Writer) error
	ImportCSV(ctx context.Context, userID uuid.UUID, r io.Reader) (*ImportResult, error)
}

type productService struct {
	productRepo port.ProductRepository
	log         zerolog.Logger
}

// NewProductService creates a new ProductService implementation.
func NewProductService(productRepo port.ProductRepository) ProductService {
	return &productService{
		productRepo: productRepo,
		log:         logger.WithComponent("product_service"),
	}
}

func (s *productService) Create(ctx context.Context, input *ProductInput) (*domain.Product, error) {
	p := &domain.Product{UserID: input.UserID}
	if err := applyProduct(p, input); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) Update(ctx context.Context, input *UpdateProductInput) (*domain.Product, error) {
	p, err := s.productRepo.GetByID(ctx, input.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if err := applyProduct(p, &input.ProductInput); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) GetByID(ctx context.Context, userID, productID uuid.UUID) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, userID, productID)
}

func (s *productService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Product, int, error) {
	return s.productRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *productService) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	return s.productRepo.Delete(ctx, userID, productID)
}

func (s *productService) ExportCSV(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	products, err := s.productRepo.ListAllByUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("writing bom: %w", err)
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteProductHeader(); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	if err := cw.WriteProducts(products); err != nil {
		return fmt.Errorf("writing csv rows: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV validates every row and stores the valid ones in one batch.
// Invalid rows are reported and skipped.
func (s *productService) ImportCSV(ctx context.Context, userID uuid.UUID, r io.Reader) (*ImportResult, error) {
	reader, err := csvimport.NewReader(r, productImportColumns...)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Skipped: []csvimport.RowError{}}
	var products []domain.Product
	for {
		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		input, err := productInputFromRow(row, userID)
		if err != nil {
			result.skip(row.Line, err.Error())
			continue
		}
		p := domain.Product{UserID: userID}
		if err := applyProduct(&p, input); err != nil {
			result.skip(row.Line, err.Error())
			continue
		}
		products = append(products, p)
	}

	if len(products) == 0 {
		return result, domain.ErrNoValidRows
	}
	if err := s.productRepo.CreateBatch(ctx, products); err != nil {
		return nil, err
	}
	result.Imported = len(products)

	s.log.Info().
		Str("user_id", userID.String()).
		Int("imported", result.Imported).
		Int("skipped", len(result.Skipped)).
		Msg("product csv imported")
	return result, nil
}

func productInputFromRow(row csvimport.Row, userID uuid.UUID) (*ProductInput, error) {
	input := &ProductInput{
		UserID:               userID,
		ProductName:          row.Get("product_name"),
		HSNCode:              row.Get("hsn_code"),
		GSTRate:              row.Get("gst_rate"),
		Category:             row.Get("category"),
		SKU:                  row.Get("sku"),
		BISCertified:         row.Bool("bis_certified"),
		BISCertificateNumber: row.Get("bis_certificate_number"),
	}

	price, ok, err := row.Float("unit_price")
	if err != nil {
		return nil, err
	}
	if ok {
		input.UnitPrice = &price
	}

	if raw := row.Get("bis_expiry_date"); raw != "" {
		expiry, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("bis_expiry_date: %q is not YYYY-MM-DD", raw)
		}
		input.BISExpiryDate = &expiry
	}
	return input, nil
}

// applyProduct validates input and copies it onto p. The GST rate is stored
// in its normalised form, e.g. "18" becomes "18%".
func applyProduct(p *domain.Product, input *ProductInput) error {
	name := strings.TrimSpace(input.ProductName)
	hsn := strings.TrimSpace(input.HSNCode)
	if name == "" || hsn == "" {
		return domain.ErrMissingProduct
	}

	rate := defaultProductRate
	if raw := strings.TrimSpace(input.GSTRate); raw != "" {
		var err error
		if rate, err = tax.ParseRate(raw); err != nil {
			return err
		}
	}
	if input.UnitPrice != nil && *input.UnitPrice < 0 {
		return fmt.Errorf("unit price %v: %w", *input.UnitPrice, domain.ErrNegativeAmount)
	}

	p.ProductName = name
	p.HSNCode = hsn
	p.GSTRate = rate.String()
	p.UnitPrice = input.UnitPrice
	p.Category = strings.TrimSpace(input.Category)
	p.SKU = strings.TrimSpace(input.SKU)
	p.BISCertified = input.BISCertified
	p.BISCertificateNumber = strings.TrimSpace(input.BISCertificateNumber)
	p.BISExpiryDate = input.BISExpiryDate
	return nil
}
