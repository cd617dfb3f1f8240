package conversation

import "testing"

func TestNormalizeIncome(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"2.5 lakh", 250000, true},
		{"1 lakh", 100000, true},
		{"50k", 50000, true},
		{"50 K", 50000, true},
		{"50000", 50000, true},
		{"₹ 60,000", 60000, true},
		{"rs 1.2 lakh", 120000, true},
		{"75000.50", 75000, true},
		{"fifty thousand", 0, false},
		{"", 0, false},
		{"lakhs of problems", 0, false},
		{".", 0, false},
	}
	for _, tt := range tests {
		got, ok := NormalizeIncome(tt.in)
		if ok != tt.wantOK {
			t.Errorf("NormalizeIncome(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("NormalizeIncome(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "₹0"},
		{500, "₹500"},
		{50000, "₹50,000"},
		{600000, "₹600,000"},
		{2500000, "₹2,500,000"},
	}
	for _, tt := range tests {
		if got := FormatINR(tt.in); got != tt.want {
			t.Errorf("FormatINR(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseINR(t *testing.T) {
	for _, n := range []int64{0, 500, 50000, 2500000} {
		got, ok := ParseINR(FormatINR(n))
		if !ok || got != n {
			t.Errorf("ParseINR(FormatINR(%d)) = %d, %v", n, got, ok)
		}
	}

	if _, ok := ParseINR("a lot"); ok {
		t.Error("ParseINR accepted non-numeric input")
	}
}

func TestIsAlphaSpaces(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Ravi", true},
		{"Ravi Kumar", true},
		{"Ravi3", false},
		{"", false},
		{"   ", false},
		{"50000", false},
	}
	for _, tt := range tests {
		if got := isAlphaSpaces(tt.in); got != tt.want {
			t.Errorf("isAlphaSpaces(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("ravi kumar"); got != "Ravi Kumar" {
		t.Errorf("titleCase = %q", got)
	}
	if got := titleCase("RAVI"); got != "Ravi" {
		t.Errorf("titleCase = %q", got)
	}
}
