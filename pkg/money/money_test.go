package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentHalfUp(t *testing.T) {
	tests := []struct {
		name     string
		amount   Cents
		percent  int64
		expected Cents
	}{
		{"Exact", Cents(6000), 10, Cents(600)},
		{"Half rounds up", Cents(1005), 10, Cents(101)},
		{"Below half rounds down", Cents(1004), 10, Cents(100)},
		{"Above half rounds up", Cents(1006), 10, Cents(101)},
		{"Zero amount", Cents(0), 10, Cents(0)},
		{"Zero percent", Cents(6000), 0, Cents(0)},
		{"Hundred percent", Cents(6000), 100, Cents(6000)},
		{"Negative mirrors positive", Cents(-1005), 10, Cents(-101)},
		{"Negative exact", Cents(-6000), 10, Cents(-600)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PercentHalfUp(tt.amount, tt.percent))
		})
	}
}

func TestDivHalfUp(t *testing.T) {
	tests := []struct {
		name     string
		amount   Cents
		n        int64
		expected Cents
	}{
		{"Exact", Cents(9000), 3, Cents(3000)},
		{"Half rounds up", Cents(1001), 2, Cents(501)},
		{"Below half rounds down", Cents(1000), 3, Cents(333)},
		{"Above half rounds up", Cents(2000), 3, Cents(667)},
		{"Package price per credit", Cents(9999), 10, Cents(1000)},
		{"Zero divisor", Cents(1000), 0, Cents(0)},
		{"Negative mirrors positive", Cents(-1001), 2, Cents(-501)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DivHalfUp(tt.amount, tt.n))
		})
	}
}

func TestCentsString(t *testing.T) {
	tests := []struct {
		name     string
		amount   Cents
		expected string
	}{
		{"Whole dollars", Cents(6500), "65.00"},
		{"With cents", Cents(6533), "65.33"},
		{"Single cent digit", Cents(6503), "65.03"},
		{"Negative", Cents(-3000), "-30.00"},
		{"Zero", Cents(0), "0.00"},
		{"Under a dollar", Cents(7), "0.07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.amount.String())
		})
	}
}

func TestCentsArithmetic(t *testing.T) {
	assert.Equal(t, Cents(6000), Cents(2000).Mul(3))
	assert.Equal(t, Cents(-2000), Cents(2000).Neg())
	assert.True(t, Cents(-1).IsNegative())
	assert.False(t, Cents(0).IsNegative())
	assert.Equal(t, 65.0, Cents(6500).Dollars())
}
