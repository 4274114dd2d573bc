package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// LineItem is a single billed product on an invoice. GSTRate keeps the boundary
// form ("18%") and is parsed by the tax engine before use. ProductID links the
// item to a catalog product whose details were copied in at save time.
type LineItem struct {
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	ProductName string     `json:"product_name"`
	HSNCode     string     `json:"hsn_code"`
	Quantity    float64    `json:"quantity"`
	Rate        float64    `json:"rate"`
	GSTRate     string     `json:"gst_rate"`
	Amount      float64    `json:"amount"`
}

// LineItems is the JSONB-backed ordered item list of an invoice.
type LineItems []LineItem

// Value implements driver.Valuer.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *LineItems) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = LineItems{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("line items: unsupported scan type")
	}
	return json.Unmarshal(data, l)
}

// Invoice is a sales invoice issued by a seller.
type Invoice struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	UserID         uuid.UUID     `db:"user_id" json:"user_id"`
	InvoiceNumber  string        `db:"invoice_number" json:"invoice_number"`
	InvoiceDate    time.Time     `db:"invoice_date" json:"invoice_date"`
	CustomerName   string        `db:"customer_name" json:"customer_name"`
	CustomerGSTIN  string        `db:"customer_gstin" json:"customer_gstin"`
	CustomerState  string        `db:"customer_state" json:"customer_state"`
	PlaceOfSupply  string        `db:"place_of_supply" json:"place_of_supply"`
	SellerState    string        `db:"seller_state" json:"seller_state"`
	Items          LineItems     `db:"items" json:"items"`
	Subtotal       float64       `db:"subtotal" json:"subtotal"`
	CGSTAmount     float64       `db:"cgst_amount" json:"cgst_amount"`
	SGSTAmount     float64       `db:"sgst_amount" json:"sgst_amount"`
	IGSTAmount     float64       `db:"igst_amount" json:"igst_amount"`
	DiscountAmount float64       `db:"discount_amount" json:"discount_amount"`
	TCSDeducted    float64       `db:"tcs_deducted" json:"tcs_deducted"`
	TotalAmount    float64       `db:"total_amount" json:"total_amount"`
	InvoiceStatus  InvoiceStatus `db:"invoice_status" json:"invoice_status"`
	PaymentStatus  PaymentStatus `db:"payment_status" json:"payment_status"`
	Notes          string        `db:"notes" json:"notes"`
	IssuedAt       *time.Time    `db:"issued_at" json:"issued_at"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// TotalGST returns the combined CGST, SGST and IGST of the invoice.
func (i *Invoice) TotalGST() float64 {
	return i.CGSTAmount + i.SGSTAmount + i.IGSTAmount
}

// SupplyState returns the place of supply, falling back to the customer state.
func (i *Invoice) SupplyState() string {
	if i.PlaceOfSupply != "" {
		return i.PlaceOfSupply
	}
	return i.CustomerState
}

// FilingRecord is the user-entered return data for one financial month.
type FilingRecord struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	UserID          uuid.UUID  `db:"user_id" json:"user_id"`
	FinancialMonth  string     `db:"financial_month" json:"financial_month"`
	GSTLiability    float64    `db:"gst_liability" json:"gst_liability"`
	ITCClaimed      float64    `db:"itc_claimed" json:"itc_claimed"`
	NetPayable      float64    `db:"net_payable" json:"net_payable"`
	TotalSales      float64    `db:"total_sales" json:"total_sales"`
	TotalPurchases  float64    `db:"total_purchases" json:"total_purchases"`
	TCSLiability    float64    `db:"tcs_liability" json:"tcs_liability"`
	GSTR1Filed      bool       `db:"gstr_1_filed" json:"gstr_1_filed"`
	GSTR1FiledDate  *time.Time `db:"gstr_1_filed_date" json:"gstr_1_filed_date"`
	GSTR3BFiled     bool       `db:"gstr_3b_filed" json:"gstr_3b_filed"`
	GSTR3BFiledDate *time.Time `db:"gstr_3b_filed_date" json:"gstr_3b_filed_date"`
	GSTR6Filed      bool       `db:"gstr_6_filed" json:"gstr_6_filed"`
	GSTR9Filed      bool       `db:"gstr_9_filed" json:"gstr_9_filed"`
	GSTR9FiledDate  *time.Time `db:"gstr_9_filed_date" json:"gstr_9_filed_date"`
	FilingDeadline  *time.Time `db:"filing_deadline" json:"filing_deadline"`
	FilingStatus    string     `db:"filing_status" json:"filing_status"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// SellerProfile holds the registration details of a seller.
type SellerProfile struct {
	UserID            uuid.UUID `db:"user_id" json:"user_id"`
	BusinessName      string    `db:"business_name" json:"business_name"`
	GSTIN             string    `db:"gstin" json:"gstin"`
	RegisteredAddress string    `db:"registered_address" json:"registered_address"`
	State             string    `db:"state" json:"state"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Product is a catalog entry used to prefill invoice line items.
type Product struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	UserID               uuid.UUID  `db:"user_id" json:"user_id"`
	ProductName          string     `db:"product_name" json:"product_name"`
	HSNCode              string     `db:"hsn_code" json:"hsn_code"`
	GSTRate              string     `db:"gst_rate" json:"gst_rate"`
	UnitPrice            *float64   `db:"unit_price" json:"unit_price"`
	Category             string     `db:"category" json:"category"`
	SKU                  string     `db:"sku" json:"sku"`
	BISCertified         bool       `db:"bis_certified" json:"bis_certified"`
	BISCertificateNumber string     `db:"bis_certificate_number" json:"bis_certificate_number"`
	BISExpiryDate        *time.Time `db:"bis_expiry_date" json:"bis_expiry_date"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}
