package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/potatotracker/internal/bot/transport"
	"github.com/potatotracker/internal/domain/transaction"
)

var mainMenuKeyboard = transport.Keyboard{
	{"/income", "/expense"},
	{"/history", "/remove"},
	{"/settings", "/monthly"},
	{"/expensehistory", "/incomehistory"},
	{"/balance", "/monthlybalance"},
}

var settingsMenuKeyboard = transport.Keyboard{
	{"Currency", "Salary Day"},
}

// formatList renders transactions as numbered history lines. The numbering is
// what the selection cache resolves removal replies against.
func formatList(list []transaction.Transaction) string {
	if len(list) == 0 {
		return "No transactions found."
	}

	lines := make([]string, 0, len(list))
	for i, tx := range list {
		lines = append(lines, fmt.Sprintf("%d. [%s] $%.2f - %s",
			i+1, tx.Date.Format("2006-01-02"), tx.Amount, tx.Description))
	}
	return strings.Join(lines, "\n")
}

func formatBalance(balance float64) string {
	return fmt.Sprintf("Your balance is: $%.2f", balance)
}

func formatMonthlyBalance(balance float64, now time.Time) string {
	return fmt.Sprintf("Your balance for %s is: $%.2f", now.Format("January 2006"), balance)
}
