package normalize

import "testing"

func TestPrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
		ok   bool
	}{
		{"rupee symbol with decimals", "₹150.00", 150, true},
		{"grouping comma", "1,234", 1234, true},
		{"bare number", "150", 150, true},
		{"empty", "", 0, false},
		{"no digits", "call for price", 0, false},
		{"whitespace only", "   ", 0, false},
		{"leading label", "MRP ₹99", 99, true},
		{"decimals truncate to integer run", "89.50", 89, true},
		{"large grouped price", "1,23,456", 123456, true},
		{"zero", "₹0.00", 0, true},
		{"price range takes first run", "₹90 - ₹120", 90, true},
		{"digits after text", "Rs. 45/strip", 45, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Price(tt.raw)
			if ok != tt.ok {
				t.Fatalf("Price(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("Price(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPrice_OverflowingRunIsUnusable(t *testing.T) {
	if _, ok := Price("99999999999999999999999"); ok {
		t.Fatal("expected overflowing digit run to be rejected")
	}
}
