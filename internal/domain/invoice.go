package domain

import (
	"time"

	"github.com/m04kA/DDC-BookingService/pkg/money"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "draft"
	InvoiceIssued        InvoiceStatus = "issued"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceCancelled     InvoiceStatus = "cancelled"
)

// LineItemKind categorises invoice lines
type LineItemKind string

const (
	// LineCharge regular service charge (daycare day, extra service)
	LineCharge LineItemKind = "charge"
	// LineCredit package-credit redemption, negative amount
	LineCredit LineItemKind = "credit"
	// LineReversal additive correction zeroing earlier lines; the audit
	// trail is append-only, existing lines are never edited or deleted
	LineReversal LineItemKind = "reversal"
)

// LineItem is a single invoice line
type LineItem struct {
	ID            int64
	InvoiceID     int64
	Kind          LineItemKind
	Description   string
	Quantity      int64
	UnitPrice     money.Cents
	Total         money.Cents // Quantity * UnitPrice, persisted for audit
	GSTApplicable bool

	CreatedAt time.Time
}

// Payment is a received payment against an invoice. Payments are
// append-only: a cancellation flags them for refund, never deletes them.
type Payment struct {
	ID        int64
	InvoiceID int64
	Amount    money.Cents
	Method    string
	Reference *string
	RefundDue bool
	PaidAt    time.Time

	CreatedAt time.Time
}

// Invoice is the financial record derived from a booking (1:1).
// GST and balance are always recomputable from lines and payments;
// the persisted amounts exist for reporting and are verified on read.
type Invoice struct {
	ID        int64
	BookingID int64
	ClientID  int64
	Number    string // INV-<year>-<NNNNN>
	Status    InvoiceStatus

	LineItems []LineItem
	GST       money.Cents
	Deposit   money.Cents // deposit required per policy
	Payments  []Payment

	IssueDate time.Time
	DueDate   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtotal returns the sum of all line-item totals, credits and
// reversals included
func (inv *Invoice) Subtotal() money.Cents {
	var sum money.Cents
	for _, li := range inv.LineItems {
		sum += li.Total
	}
	return sum
}

// GSTBase returns the GST-able part of the subtotal
func (inv *Invoice) GSTBase() money.Cents {
	var sum money.Cents
	for _, li := range inv.LineItems {
		if li.GSTApplicable {
			sum += li.Total
		}
	}
	return sum
}

// ComputeGST derives the GST amount from the current lines
func (inv *Invoice) ComputeGST(ratePercent int64) money.Cents {
	return money.PercentHalfUp(inv.GSTBase(), ratePercent)
}

// TotalPaid returns the sum of received payments
func (inv *Invoice) TotalPaid() money.Cents {
	var sum money.Cents
	for _, p := range inv.Payments {
		sum += p.Amount
	}
	return sum
}

// Total returns subtotal plus GST
func (inv *Invoice) Total() money.Cents {
	return inv.Subtotal() + inv.GST
}

// Balance returns the outstanding amount: sum(lines) + GST - sum(payments)
func (inv *Invoice) Balance() money.Cents {
	return inv.Total() - inv.TotalPaid()
}

// PaymentStatus derives the invoice status implied by the current
// balance, for non-cancelled invoices
func (inv *Invoice) PaymentStatus() InvoiceStatus {
	switch {
	case inv.Balance() <= 0:
		return InvoicePaid
	case inv.TotalPaid() > 0:
		return InvoicePartiallyPaid
	default:
		return InvoiceIssued
	}
}
