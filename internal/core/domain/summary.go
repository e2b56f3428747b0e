package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Period selects the trailing window of a transaction summary.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ParsePeriod maps a query value to a Period. An empty value means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodAll, nil
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Cutoff returns the earliest included timestamp, or nil for PeriodAll.
// Month and year are calendar-relative.
func (p Period) Cutoff(now time.Time) *time.Time {
	var c time.Time
	switch p {
	case PeriodDay:
		c = now.Add(-24 * time.Hour)
	case PeriodWeek:
		c = now.AddDate(0, 0, -7)
	case PeriodMonth:
		c = now.AddDate(0, -1, 0)
	case PeriodYear:
		c = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &c
}

// Summary aggregates the transactions of one wallet over a period.
type Summary struct {
	Period        Period
	StartDate     *time.Time
	EndDate       time.Time
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Transactions  []Transaction
}

// Net is income minus expenses.
func (s Summary) Net() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpenses)
}

// Summarize filters txs to those dated at or after the period cutoff and totals them.
func Summarize(txs []Transaction, p Period, now time.Time) Summary {
	now = now.UTC()
	s := Summary{
		Period:        p,
		StartDate:     p.Cutoff(now),
		EndDate:       now,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		Transactions:  []Transaction{},
	}

	for _, tx := range txs {
		if s.StartDate != nil && tx.Date.Before(*s.StartDate) {
			continue
		}
		s.Transactions = append(s.Transactions, tx)
		switch tx.Type {
		case TransactionTypeIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case TransactionTypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(tx.Amount)
		}
	}

	s.TotalIncome = RoundMoney(s.TotalIncome)
	s.TotalExpenses = RoundMoney(s.TotalExpenses)
	return s
}
