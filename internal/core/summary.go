package core

// MonthlySummary is the dashboard view for one calendar month.
type MonthlySummary struct {
	Year          int   `json:"year"`
	Month         int   `json:"month"` // 1-12
	TotalIncome   Money `json:"totalIncome"`
	TotalExpenses Money `json:"totalExpenses"`
	// CarryOver is the previous month's net balance (income minus expenses),
	// looking back exactly one month.
	CarryOver Money `json:"carryOver"`
	Balance   Money `json:"balance"`
	// TotalSavings sums every savings-flagged expense regardless of period.
	TotalSavings Money `json:"totalSavings"`
}

// MonthPoint is one bar group of the yearly chart.
type MonthPoint struct {
	Month   int   `json:"month"` // 1-12
	Income  Money `json:"income"`
	Expense Money `json:"expense"` // savings-flagged expenses excluded
	Savings Money `json:"savings"`
}

// Summarize computes the monthly summary for the month of ref over the full
// record sets. It is a pure function: record order does not matter and
// records from unrelated months do not affect the result.
func Summarize(incomes []Income, expenses []Expense, ref Date) MonthlySummary {
	year, month := ref.Year(), ref.Month()
	income := sumIncomes(incomes, year, month)
	expense := sumExpenses(expenses, year, month, true)

	prev := ref.AddMonths(-1)
	carry := sumIncomes(incomes, prev.Year(), prev.Month()).Cents -
		sumExpenses(expenses, prev.Year(), prev.Month(), true).Cents

	var savings int64
	for _, e := range expenses {
		if e.IsSaving {
			savings += e.Amount.Cents
		}
	}

	return MonthlySummary{
		Year:          year,
		Month:         month,
		TotalIncome:   income,
		TotalExpenses: expense,
		CarryOver:     Money{Cents: carry},
		Balance:       Money{Cents: income.Cents - expense.Cents + carry},
		TotalSavings:  Money{Cents: savings},
	}
}

// YearSeries computes the 12 chart points for the given year. The expense
// column excludes savings-flagged records; those appear in the savings column.
func YearSeries(incomes []Income, expenses []Expense, year int) [12]MonthPoint {
	var series [12]MonthPoint
	for i := range series {
		series[i].Month = i + 1
	}
	for _, inc := range incomes {
		if inc.Date.Year() == year {
			series[inc.Date.Month()-1].Income.Cents += inc.Amount.Cents
		}
	}
	for _, e := range expenses {
		if e.Date.Year() != year {
			continue
		}
		p := &series[e.Date.Month()-1]
		if e.IsSaving {
			p.Savings.Cents += e.Amount.Cents
		} else {
			p.Expense.Cents += e.Amount.Cents
		}
	}
	return series
}

func sumIncomes(incomes []Income, year, month int) Money {
	var total int64
	for _, i := range incomes {
		if i.Date.InMonth(year, month) {
			total += i.Amount.Cents
		}
	}
	return Money{Cents: total}
}

func sumExpenses(expenses []Expense, year, month int, includeSavings bool) Money {
	var total int64
	for _, e := range expenses {
		if !e.Date.InMonth(year, month) {
			continue
		}
		if !includeSavings && e.IsSaving {
			continue
		}
		total += e.Amount.Cents
	}
	return Money{Cents: total}
}
