// Package aggregate computes history, balance, and salary-cycle views over a
// chat's transaction list. All functions are pure: absent settings and empty
// lists degrade to empty results, never an error.
package aggregate

import (
	"time"

	"github.com/potatotracker/internal/domain/settings"
	"github.com/potatotracker/internal/domain/transaction"
)

// History wraps a chat's transaction list into the derived history view,
// preserving store order.
func History(chatID string, list []transaction.Transaction) transaction.History {
	return transaction.History{ChatID: chatID, Transactions: list}
}

// FilterByType returns the transactions matching t, preserving relative order.
func FilterByType(list []transaction.Transaction, t transaction.Type) []transaction.Transaction {
	var out []transaction.Transaction
	for _, tx := range list {
		if tx.Type == t {
			out = append(out, tx)
		}
	}
	return out
}

// SumByType adds up the amounts of all transactions matching t.
func SumByType(list []transaction.Transaction, t transaction.Type) float64 {
	var sum float64
	for _, tx := range list {
		if tx.Type == t {
			sum += tx.Amount
		}
	}
	return sum
}

// Balance returns total income minus total expenses over the full list.
func Balance(list []transaction.Transaction) float64 {
	return SumByType(list, transaction.TypeIncome) - SumByType(list, transaction.TypeExpense)
}

// MonthlyBalance returns income minus expenses restricted to transactions
// falling in now's calendar month and year.
func MonthlyBalance(list []transaction.Transaction, now time.Time) float64 {
	var balance float64
	for _, tx := range list {
		if tx.Date.Month() != now.Month() || tx.Date.Year() != now.Year() {
			continue
		}
		switch tx.Type {
		case transaction.TypeIncome:
			balance += tx.Amount
		case transaction.TypeExpense:
			balance -= tx.Amount
		}
	}
	return balance
}

// CycleWindowStart returns the start of the current salary cycle: the day in
// the previous calendar month numbered by the configured salary day, or now's
// day-of-month when no salary day is set. The anchor is always the previous
// month, not the most recent occurrence of the salary day. When the previous
// month is shorter than the anchor day, the day is clamped to that month's
// last day (salary day 31 over April anchors to April 30).
func CycleWindowStart(s *settings.Settings, now time.Time) time.Time {
	day := now.Day()
	if s != nil && s.SalaryDay != nil {
		day = *s.SalaryDay
	}

	firstOfPrev := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
	if last := daysIn(firstOfPrev); day > last {
		day = last
	}

	return time.Date(firstOfPrev.Year(), firstOfPrev.Month(), day, 0, 0, 0, 0, now.Location())
}

// FilterFromDate returns the transactions dated at or after from, preserving order.
func FilterFromDate(list []transaction.Transaction, from time.Time) []transaction.Transaction {
	var out []transaction.Transaction
	for _, tx := range list {
		if !tx.Date.Before(from) {
			out = append(out, tx)
		}
	}
	return out
}

// daysIn returns the number of days in t's month. Day 0 of the next month
// normalizes to this month's last day.
func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
