package core

import (
	"fmt"
	"time"
)

// Months holds the canonical month names in calendar order. All ledger rows
// and the dashboard month selector use exactly these labels.
var Months = []string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthIndex returns the 1-based calendar index for a canonical month name.
func MonthIndex(name string) (int, error) {
	for i, m := range Months {
		if m == name {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, name)
}

// SaturdaysInMonth returns the "DD/MM" labels of every Saturday in the given
// month, ascending. Months have 4 or 5 Saturdays, so the result length also
// tells callers how many week-slots are meaningful. Pure, no side effects.
func SaturdaysInMonth(year int, monthName string) ([]string, error) {
	idx, err := MonthIndex(monthName)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, WeekSlots)
	for d := time.Date(year, time.Month(idx), 1, 0, 0, 0, 0, time.UTC); int(d.Month()) == idx; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday {
			out = append(out, d.Format("02/01"))
		}
	}
	return out, nil
}
