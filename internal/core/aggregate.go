package core

// CounterKind selects which of the three weekly counters to aggregate.
type CounterKind int

const (
	CountMembers CounterKind = iota
	CountActive
	CountVisitors
)

// SumCounters sums one counter kind across all week-slots of every row in the
// subset. Read-only, safe for concurrent callers.
func SumCounters(rows []AttendanceRow, kind CounterKind) int {
	total := 0
	for _, r := range rows {
		for _, w := range r.Weeks {
			switch kind {
			case CountMembers:
				total += w.Members
			case CountActive:
				total += w.Active
			case CountVisitors:
				total += w.Visitors
			}
		}
	}
	return total
}

// SumWeek sums all three counters of a single week-slot across the subset.
func SumWeek(rows []AttendanceRow, week int) WeekSlot {
	var out WeekSlot
	if week < 0 || week >= WeekSlots {
		return out
	}
	for _, r := range rows {
		out.Members += r.Weeks[week].Members
		out.Active += r.Weeks[week].Active
		out.Visitors += r.Weeks[week].Visitors
	}
	return out
}

// SumByMonth totals paid tithes per month, projected onto the canonical
// 12-month order: months with no paid rows report zero instead of being
// omitted.
func SumByMonth(rows []TitheRow) map[string]Money {
	out := make(map[string]Money, len(Months))
	for _, m := range Months {
		out[m] = Money{}
	}
	for _, r := range rows {
		if r.Paid != PaidYes {
			continue
		}
		if _, ok := out[r.Month]; !ok {
			// Rows with off-roster month labels are ignored rather than
			// inventing a 13th bucket.
			continue
		}
		out[r.Month] = Money{Cents: out[r.Month].Cents + r.Amount.Cents}
	}
	return out
}

// TotalPaid sums Valor over every paid row in the subset.
func TotalPaid(rows []TitheRow) Money {
	var cents int64
	for _, r := range rows {
		if r.Paid == PaidYes {
			cents += r.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// StatusBreakdown counts rows per paid flag for one month.
func StatusBreakdown(rows []TitheRow, month string) map[PaidFlag]int {
	out := map[PaidFlag]int{PaidYes: 0, PaidNo: 0}
	for _, r := range rows {
		if r.Month != month {
			continue
		}
		out[r.Paid]++
	}
	return out
}

// FilterAttendance returns the rows matching month and, when cat is non-empty,
// category. The result shares no memory with the input.
func FilterAttendance(rows []AttendanceRow, month string, cat Category) []AttendanceRow {
	var out []AttendanceRow
	for _, r := range rows {
		if r.Month != month {
			continue
		}
		if cat != "" && r.Category != cat {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterTithes returns the tithe rows for one month.
func FilterTithes(rows []TitheRow, month string) []TitheRow {
	var out []TitheRow
	for _, r := range rows {
		if r.Month == month {
			out = append(out, r)
		}
	}
	return out
}
