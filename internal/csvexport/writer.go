package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns is the invoice export header. Downstream tools key on these names.
var columns = []string{
	"invoice_number",
	"invoice_date",
	"customer_name",
	"total_amount",
	"gst_amount",
	"tcs_deducted",
}

// ProductColumns is the product catalog header, shared with the importer.
var ProductColumns = []string{
	"product_name",
	"hsn_code",
	"gst_rate",
	"unit_price",
	"category",
	"sku",
	"bis_certified",
	"bis_certificate_number",
	"bis_expiry_date",
}

// Writer wraps csv.Writer for exporting invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *Writer) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteProductHeader writes the product catalog header row.
func (w *Writer) WriteProductHeader() error {
	return w.csv.Write(ProductColumns)
}

// WriteProducts writes one row per catalog product.
func (w *Writer) WriteProducts(products []domain.Product) error {
	for i := range products {
		if err := w.csv.Write(productToRow(&products[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func invoiceToRow(inv *domain.Invoice) []string {
	return []string{
		inv.InvoiceNumber,
		inv.InvoiceDate.Format("2006-01-02"),
		inv.CustomerName,
		formatMoney(inv.TotalAmount),
		formatMoney(inv.TotalGST()),
		formatMoney(inv.TCSDeducted),
	}
}

func productToRow(p *domain.Product) []string {
	price := ""
	if p.UnitPrice != nil {
		price = formatMoney(*p.UnitPrice)
	}
	expiry := ""
	if p.BISExpiryDate != nil {
		expiry = p.BISExpiryDate.Format("2006-01-02")
	}
	return []string{
		p.ProductName,
		p.HSNCode,
		p.GSTRate,
		price,
		p.Category,
		p.SKU,
		strconv.FormatBool(p.BISCertified),
		p.BISCertificateNumber,
		expiry,
	}
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string, now time.Time) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "export"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, now.Format("2006-01-02"), ext)
}
