package catalog

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"¥1500", 1500, true},
		{"¥1,500", 1500, true},
		{"CNY 1,500.50", 1500.5, true},
		{"1.299,00 元", 1299, true},
		{"12,5", 12.5, true},
		{"1.234.567", 1234567, true},
		{"€ 89.90", 89.9, true},
		{"1500.", 1500, true},
		{"¥1.500", 1500, true},
		{"0.500", 0.5, true},
		{"0,500", 0.5, true},
		{"12.50", 12.5, true},
		{"price on request", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParsePrice(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParsePrice(%q): want %v,%v got %v,%v", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}

func TestConvertPriceRounds(t *testing.T) {
	got := ConvertPrice("¥1500", 0.136)
	if got == nil || *got != 204.00 {
		t.Fatalf("want 204.00, got %v", got)
	}
	got = ConvertPrice("¥99", 0.1287)
	if got == nil || *got != 12.74 {
		t.Fatalf("want 12.74, got %v", got)
	}
}

func TestConvertPriceNil(t *testing.T) {
	if ConvertPrice("n/a", 0.136) != nil {
		t.Fatalf("unparseable price should convert to nil")
	}
	if ConvertPrice("¥10", 0) != nil {
		t.Fatalf("zero rate should convert to nil")
	}
}
