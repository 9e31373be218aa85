package cashbook

import (
	"strings"
	"testing"
)

func TestMoneyString(t *testing.T) {
	testCases := []struct {
		m    Money
		want []string // fragments of the formatted value
	}{
		{m: EUR(1234.5), want: []string{"1,234.50", "€"}},
		{m: M(-140, "USD"), want: []string{"-", "140.00", "$"}},
		{m: M(dec("1000"), "JPY"), want: []string{"1,000"}},
		{m: M(12.3, "XYZ"), want: []string{"12.30 XYZ"}},
	}
	for _, tc := range testCases {
		got := tc.m.String()
		for _, w := range tc.want {
			if !strings.Contains(got, w) {
				t.Errorf("%v %s String() = %q, want it to contain %q", tc.m.Value(), tc.m.Currency(), got, w)
			}
		}
	}
	if got := M(dec("1000"), "JPY").String(); strings.Contains(got, ".") {
		t.Errorf("JPY String() = %q, want no decimals", got)
	}
}

func TestMoneyFixed(t *testing.T) {
	if got := M(dec("102"), "EUR").Fixed(); got != "102.00" {
		t.Errorf("Fixed() = %q, want 102.00", got)
	}
	if got := M(dec("2.345"), "EUR").Round(); !got.Value().Equal(dec("2.35")) {
		t.Errorf("Round() = %v, want 2.35", got.Value())
	}
}

func TestCurrencySymbol(t *testing.T) {
	for code, want := range map[string]string{"EUR": "€", "USD": "$", "XYZ": "XYZ"} {
		if got := currencySymbol(code); got != want {
			t.Errorf("currencySymbol(%q) = %q, want %q", code, got, want)
		}
	}
}
