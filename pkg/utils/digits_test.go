package utils

import "testing"

func TestNormalizeDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1001", "1001"},
		{"۱۰۰۱", "1001"},
		{"٣٢١", "321"},
		{"approve ۱۰۰۵", "approve 1005"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeDigits(tt.in); got != tt.want {
			t.Errorf("NormalizeDigits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1,500,000", "1500000"},
		{" ۲٬۵۰۰ ", "2500"},
		{"42", "42"},
	}
	for _, tt := range tests {
		if got := CleanNumber(tt.in); got != tt.want {
			t.Errorf("CleanNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
