package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmountInRange(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"12.50", true},
		{"0.00000001", true},
		{"999999999999999.99", true},
		{"-40", true},
		{"1e5000000", false},
		{"1e1000000000", false},
		{"1000000000000000", false},
		{"0.000000001", false},
		{"1e-20", false},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		if got := AmountInRange(d); got != tt.want {
			t.Errorf("AmountInRange(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
