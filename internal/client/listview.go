package client

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/transaction"
)

// Filter selects which transaction types the list view shows.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterIncome  Filter = "income"
	FilterExpense Filter = "expense"
)

// Totals aggregates the loaded collection: income sum, expense sum and their
// difference.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// ListView is a local projection over a fetched transaction collection. The
// filter and search are view-only: nothing here is persisted or sent to the
// server.
type ListView struct {
	items []transaction.Transaction
}

// NewListView wraps the fetched collection, preserving its server order.
func NewListView(items []transaction.Transaction) *ListView {
	return &ListView{items: items}
}

// All returns the full loaded collection.
func (v *ListView) All() []transaction.Transaction {
	return v.items
}

// Visible applies the type filter and a case-insensitive substring search over
// title and category, preserving order.
func (v *ListView) Visible(filter Filter, search string) []transaction.Transaction {
	needle := strings.ToLower(strings.TrimSpace(search))

	visible := make([]transaction.Transaction, 0, len(v.items))
	for _, tx := range v.items {
		switch filter {
		case FilterIncome:
			if tx.Type != transaction.TypeIncome {
				continue
			}
		case FilterExpense:
			if tx.Type != transaction.TypeExpense {
				continue
			}
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(tx.Title), needle) &&
			!strings.Contains(strings.ToLower(tx.Category), needle) {
			continue
		}
		visible = append(visible, tx)
	}
	return visible
}

// Totals recomputes the aggregates from the full loaded collection, regardless
// of any active filter or search.
func (v *ListView) Totals() Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range v.items {
		switch tx.Type {
		case transaction.TypeIncome:
			t.Income = t.Income.Add(tx.Amount)
		case transaction.TypeExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}
