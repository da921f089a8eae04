package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/DDC-BookingService/pkg/money"
)

func TestInvoiceTotals(t *testing.T) {
	inv := &Invoice{
		LineItems: []LineItem{
			{Kind: LineCharge, Total: money.Cents(6000), GSTApplicable: true},
			{Kind: LineCharge, Total: money.Cents(1500), GSTApplicable: false},
			{Kind: LineCredit, Total: money.Cents(-3000), GSTApplicable: true},
		},
		GST: money.Cents(300),
	}

	assert.Equal(t, money.Cents(4500), inv.Subtotal())
	assert.Equal(t, money.Cents(3000), inv.GSTBase())
	assert.Equal(t, money.Cents(300), inv.ComputeGST(10))
	assert.Equal(t, money.Cents(4800), inv.Total())
	assert.Equal(t, money.Cents(4800), inv.Balance())

	inv.Payments = append(inv.Payments, Payment{Amount: money.Cents(1800)})
	assert.Equal(t, money.Cents(1800), inv.TotalPaid())
	assert.Equal(t, money.Cents(3000), inv.Balance())
}

func TestInvoicePaymentStatus(t *testing.T) {
	inv := &Invoice{
		LineItems: []LineItem{{Kind: LineCharge, Total: money.Cents(3000), GSTApplicable: true}},
		GST:       money.Cents(300),
	}

	assert.Equal(t, InvoiceIssued, inv.PaymentStatus())

	inv.Payments = append(inv.Payments, Payment{Amount: money.Cents(1000)})
	assert.Equal(t, InvoicePartiallyPaid, inv.PaymentStatus())

	inv.Payments = append(inv.Payments, Payment{Amount: money.Cents(2300)})
	assert.Equal(t, InvoicePaid, inv.PaymentStatus())
}
