package domain

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrFilingNotFound   = errors.New("filing record not found")
	ErrProfileNotFound  = errors.New("seller profile not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrInvoiceImmutable = errors.New("issued invoices cannot be modified")
	ErrDuplicateInvoice = errors.New("invoice number already exists")
	ErrArchiveDisabled  = errors.New("report archiving is not configured")

	// Input validation errors raised by the tax engine.
	ErrNegativeQuantity  = errors.New("quantity must not be negative")
	ErrNegativeRate      = errors.New("rate must not be negative")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrNegativeDiscount  = errors.New("discount must not be negative")
	ErrInvalidGSTRate    = errors.New("gst rate must be one of 0%, 5%, 12%, 18%, 28%")
	ErrNoLineItems       = errors.New("invoice must have at least one line item")
	ErrInvalidStatus     = errors.New("invalid invoice or payment status")
	ErrInvalidMonth      = errors.New("financial month must be YYYY-MM")
	ErrInvalidReturnType = errors.New("invalid return type")
	ErrInvalidPeriod     = errors.New("invalid report period")
	ErrMissingCustomer   = errors.New("customer name is required")
	ErrMissingProduct    = errors.New("product name and HSN code are required")

	// CSV import errors.
	ErrEmptyCSV       = errors.New("csv file is empty")
	ErrMalformedCSV   = errors.New("malformed csv")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoValidRows    = errors.New("no valid rows found in csv")
)
