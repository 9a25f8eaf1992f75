package google

import (
	"fmt"
	"strings"
	"time"

	"finview/internal/core"
)

// Snapshot sheet columns, in default order. A header row, when present,
// may reorder them.
var snapshotColumns = []string{"UserID", "Kind", "Name", "Amount", "Extra", "Date", "Category"}

const (
	colUserID = iota
	colKind
	colName
	colAmount
	colExtra
	colDate
	colCategory
)

// parseSnapshotRows collects the rows for userID into SnapshotData.
//
// Kinds:
//
//	income, expenses, balance   Amount is the monthly figure
//	category                    Name, Amount
//	investment                  Name, Amount invested, Extra current value
//	sip                         Name is the fund, Amount monthly, Extra total contributed
//	transaction                 Name is the title, Amount, Extra income|expense, Date, Category
//
// Unknown kinds are ignored. found is false when no row names userID.
func parseSnapshotRows(values [][]interface{}, userID string) (data core.SnapshotData, found bool, err error) {
	cols := make([]int, len(snapshotColumns))
	for i := range cols {
		cols[i] = i
	}
	start := 0
	if len(values) > 0 {
		headers := toStrings(values[0])
		if indexOf(headers, snapshotColumns[colUserID]) != -1 {
			for i, name := range snapshotColumns {
				cols[i] = indexOf(headers, name)
			}
			if cols[colUserID] == -1 || cols[colKind] == -1 || cols[colAmount] == -1 {
				return data, false, fmt.Errorf("unexpected snapshot header: got headers=%v", headers)
			}
			start = 1
		}
	}

	data.UserID = userID
	for i := start; i < len(values); i++ {
		row := toStrings(values[i])
		if strings.TrimSpace(safeGet(row, cols[colUserID])) != userID {
			continue
		}
		found = true
		kind := strings.ToLower(safeGet(row, cols[colKind]))
		name := safeGet(row, cols[colName])
		rowNum := i + 1

		amount, err := parseCell(safeGet(row, cols[colAmount]))
		if err != nil {
			return data, found, fmt.Errorf("row %d amount: %w", rowNum, err)
		}

		switch kind {
		case "income":
			data.TotalIncome = amount
		case "expenses":
			data.TotalExpenses = amount
		case "balance":
			data.Balance = amount
		case "category":
			data.Categories = append(data.Categories, core.CategorySpend{Name: name, Amount: amount})
		case "investment":
			current, err := parseCell(safeGet(row, cols[colExtra]))
			if err != nil {
				return data, found, fmt.Errorf("row %d current value: %w", rowNum, err)
			}
			data.Investments = append(data.Investments, core.Investment{Name: name, Invested: amount, CurrentValue: current})
		case "sip":
			total, err := parseCell(safeGet(row, cols[colExtra]))
			if err != nil {
				return data, found, fmt.Errorf("row %d total contributed: %w", rowNum, err)
			}
			data.SIPContributions = append(data.SIPContributions, core.SIPContribution{Fund: name, MonthlyAmount: amount, TotalContributed: total})
		case "transaction":
			date, err := parseDate(safeGet(row, cols[colDate]))
			if err != nil {
				return data, found, fmt.Errorf("row %d date: %w", rowNum, err)
			}
			data.RecentTransactions = append(data.RecentTransactions, core.Transaction{
				Title:    name,
				Amount:   amount,
				Type:     core.TransactionType(strings.ToLower(safeGet(row, cols[colExtra]))),
				Category: safeGet(row, cols[colCategory]),
				Date:     date,
			})
		}
	}
	return data, found, nil
}

// parseCell reads an amount; blank cells are zero.
func parseCell(s string) (core.Money, error) {
	if strings.TrimSpace(s) == "" {
		return core.Money{}, nil
	}
	return core.ParseAmount(s)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
