package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"100.00", 10000, true},
		{"25.30", 2530, true},
		{"25,30", 2530, true},
		{"0", 0, true},
		{" 7 ", 700, true},
		{"-3.50", -350, true},
		{"12.345", 1235, true}, // rounded half away from zero
		{"12.5x", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for i, tc := range cases {
		m, err := ParseAmount(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d (%q): expected ok, got %v", i, tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
		if tc.ok && m.Cents != tc.cents {
			t.Fatalf("case %d (%q): cents=%d, want %d", i, tc.in, m.Cents, tc.cents)
		}
	}
}

func TestParseAmountErrorKind(t *testing.T) {
	if _, err := ParseAmount("12.5x"); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{10000, "100.00"},
		{2530, "25.30"},
		{0, "0.00"},
		{-350, "-3.50"},
		{5, "0.05"},
	}
	for i, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}
