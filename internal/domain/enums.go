package domain

// InvoiceStatus represents the lifecycle of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusIssued InvoiceStatus = "issued"
)

// ValidInvoiceStatuses lists the statuses an invoice may be saved with.
var ValidInvoiceStatuses = map[InvoiceStatus]bool{
	InvoiceStatusDraft:  true,
	InvoiceStatusIssued: true,
}

// PaymentStatus tracks whether the buyer has settled an invoice.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// ReturnType identifies a statutory GST return form.
type ReturnType string

const (
	ReturnGSTR1  ReturnType = "gstr_1"
	ReturnGSTR3B ReturnType = "gstr_3b"
	ReturnGSTR6  ReturnType = "gstr_6"
	ReturnGSTR9  ReturnType = "gstr_9"
)

// ValidReturnTypes maps accepted return identifiers.
var ValidReturnTypes = map[ReturnType]bool{
	ReturnGSTR1:  true,
	ReturnGSTR3B: true,
	ReturnGSTR6:  true,
	ReturnGSTR9:  true,
}

// FinancialMonthLayout is the canonical layout of FilingRecord.FinancialMonth.
const FinancialMonthLayout = "2006-01"

// Filing status values stored on FilingRecord.FilingStatus.
const (
	FilingStatusPending = "pending"
	FilingStatusPartial = "partial"
	FilingStatusFiled   = "filed"
)

// ValidPaymentStatuses lists the accepted payment states.
var ValidPaymentStatuses = map[PaymentStatus]bool{
	PaymentStatusUnpaid: true,
	PaymentStatusPaid:   true,
}
