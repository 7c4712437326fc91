package metrics

import "github.com/fliptrack/fliptrack/internal/records"

// aggregateExpenses sums filtered expenses and breaks the total down by
// free-text expense type. Amounts are already in the display currency.
func aggregateExpenses(expenses []records.Expense) (total float64, byType map[string]float64) {
	byType = make(map[string]float64)
	for _, expense := range expenses {
		total += expense.Amount
		byType[expense.ExpenseType] += expense.Amount
	}
	return total, byType
}
