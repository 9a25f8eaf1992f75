package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"8500", "₹8,500", true},
		{"8,500", "₹8,500", true},
		{"₹8,500.50", "₹8,500.5", true},
		{" Rs 1,200 ", "₹1,200", true},
		{"INR 99.999", "₹100", true},
		{"0", "₹0", true},
		{"-1", "", false},
		{"+1", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got.String(), err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		m    Money
		want string
	}{
		{Rupees(0), "₹0"},
		{Rupees(500), "₹500"},
		{Rupees(15000), "₹15,000"},
		{Rupees(1234567), "₹1,234,567"},
		{NewMoney(decimal.RequireFromString("1234.25")), "₹1,234.25"},
		{NewMoney(decimal.RequireFromString("0.10")), "₹0.1"},
		{NewMoney(decimal.RequireFromString("1234.5678")), "₹1,234.568"},
		{NewMoney(decimal.RequireFromString("99.9995")), "₹100"},
		{NewMoney(decimal.RequireFromString("0.0004")), "₹0"},
		{Rupees(-2500), "-₹2,500"},
		{Money{}, "₹0"},
	}
	for _, tc := range cases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestPercentOf(t *testing.T) {
	cases := []struct {
		part, whole int64
		want        string
	}{
		{8500, 35000, "24.3"},
		{12000, 35000, "34.3"},
		{15000, 50000, "30.0"},
		{1, 3, "33.3"},
		{2, 3, "66.7"},
		{5, 0, "0.0"},
		{0, 0, "0.0"},
	}
	for _, tc := range cases {
		got := PercentOf(decimal.NewFromInt(tc.part), decimal.NewFromInt(tc.whole)).String()
		if got != tc.want {
			t.Errorf("PercentOf(%d, %d) = %s, want %s", tc.part, tc.whole, got, tc.want)
		}
	}
}
