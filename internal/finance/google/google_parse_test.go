package google

import (
	"testing"

	"finview/internal/core"
)

func demoRows() [][]interface{} {
	return [][]interface{}{
		{"UserID", "Kind", "Name", "Amount", "Extra", "Date", "Category"},
		{"user123", "income", "", "50,000"},
		{"user123", "expenses", "", "35000"},
		{"user123", "balance", "", "₹15,000"},
		{"user123", "category", "Food & Dining", 8500.0},
		{"user123", "category", "Housing", "12000"},
		{"other", "category", "Shopping", "999"},
		{"user123", "investment", "NIFTY 50 Index Fund", "100000", "108500"},
		{"user123", "sip", "Small Cap Fund", "2000", "24000"},
		{"user123", "transaction", "Zomato Order", "850", "expense", "2024-01-14", "Food & Dining"},
		{"user123", "note", "ignored", "0"},
	}
}

func TestParseSnapshotRows_Demo(t *testing.T) {
	data, found, err := parseSnapshotRows(demoRows(), "user123")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if !found {
		t.Fatal("expected user123 to be found")
	}
	snap, err := core.NewSnapshot(data)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got := snap.TotalIncome().String(); got != "₹50,000" {
		t.Errorf("income = %s", got)
	}
	if got := snap.Balance().String(); got != "₹15,000" {
		t.Errorf("balance = %s", got)
	}
	if names := snap.CategoryNames(); len(names) != 2 || names[0] != "Food & Dining" || names[1] != "Housing" {
		t.Errorf("categories = %v", names)
	}
	if got, _ := snap.Category("Food & Dining"); got.String() != "₹8,500" {
		t.Errorf("food = %s", got.String())
	}
	inv := snap.Investments()
	if len(inv) != 1 || inv[0].CurrentValue.String() != "₹108,500" {
		t.Errorf("investments = %+v", inv)
	}
	sips := snap.SIPContributions()
	if len(sips) != 1 || sips[0].TotalContributed.String() != "₹24,000" {
		t.Errorf("sips = %+v", sips)
	}
	txs := snap.RecentTransactions()
	if len(txs) != 1 || txs[0].Type != core.Expense || txs[0].Category != "Food & Dining" || txs[0].Date.Day() != 14 {
		t.Errorf("transactions = %+v", txs)
	}
}

func TestParseSnapshotRows_NotFound(t *testing.T) {
	_, found, err := parseSnapshotRows(demoRows(), "nobody")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if found {
		t.Fatal("nobody should not be found")
	}
}

func TestParseSnapshotRows_UserIDIsCaseSensitive(t *testing.T) {
	_, found, err := parseSnapshotRows(demoRows(), "USER123")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if found {
		t.Fatal("USER123 must not match user123")
	}
}

func TestParseSnapshotRows_NoHeaderUsesDefaultOrder(t *testing.T) {
	values := [][]interface{}{
		{"user123", "category", "Education", "800"},
	}
	data, found, err := parseSnapshotRows(values, "USER123")
	if err != nil || !found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if len(data.Categories) != 1 || data.Categories[0].Name != "Education" {
		t.Errorf("categories = %+v", data.Categories)
	}
}

func TestParseSnapshotRows_Errors(t *testing.T) {
	tests := map[string][][]interface{}{
		"bad amount": {{"user123", "category", "Food", "lots"}},
		"bad date":   {{"user123", "transaction", "Tea", "10", "expense", "yesterday"}},
		"bad header": {{"UserID", "Name"}},
	}
	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := parseSnapshotRows(values, "user123"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
