package core

import "testing"

func TestSumCounters(t *testing.T) {
	rows := []AttendanceRow{
		{Month: "Janeiro", Leader: "A", Category: CategoryJovens, Type: ActivityCelula,
			Weeks: [WeekSlots]WeekSlot{{Members: 5, Active: 3, Visitors: 1}, {Members: 7, Active: 2, Visitors: 0}}},
		{Month: "Janeiro", Leader: "B", Category: CategoryJovens, Type: ActivityCelula,
			Weeks: [WeekSlots]WeekSlot{{Members: 10, Active: 8, Visitors: 2}}},
	}
	if got := SumCounters(rows, CountMembers); got != 22 {
		t.Fatalf("members: got %d, want 22", got)
	}
	if got := SumCounters(rows, CountActive); got != 13 {
		t.Fatalf("active: got %d, want 13", got)
	}
	if got := SumCounters(rows, CountVisitors); got != 3 {
		t.Fatalf("visitors: got %d, want 3", got)
	}
	if got := SumCounters(nil, CountMembers); got != 0 {
		t.Fatalf("empty subset: got %d, want 0", got)
	}
}

func TestSumWeek(t *testing.T) {
	rows := []AttendanceRow{
		{Weeks: [WeekSlots]WeekSlot{{Members: 5}, {Members: 7, Active: 1}}},
		{Weeks: [WeekSlots]WeekSlot{{Members: 2, Visitors: 4}, {Members: 1}}},
	}
	if got := SumWeek(rows, 0); got != (WeekSlot{Members: 7, Visitors: 4}) {
		t.Fatalf("week 0: got %+v", got)
	}
	if got := SumWeek(rows, 7); got != (WeekSlot{}) {
		t.Fatalf("out-of-range week should sum to zero, got %+v", got)
	}
}

func TestSumByMonth(t *testing.T) {
	rows := []TitheRow{
		{Month: "Janeiro", Leader: "A", Category: CategoryJovens, Amount: Money{Cents: 10000}, Paid: PaidYes},
		{Month: "Janeiro", Leader: "B", Category: CategoryJovens, Amount: Money{Cents: 5000}, Paid: PaidNo},
	}
	got := SumByMonth(rows)
	if len(got) != 12 {
		t.Fatalf("expected all 12 months present, got %d", len(got))
	}
	if got["Janeiro"].Cents != 10000 {
		t.Fatalf("Janeiro: got %d, want 10000", got["Janeiro"].Cents)
	}
	for _, m := range Months[1:] {
		if got[m].Cents != 0 {
			t.Fatalf("%s: expected 0, got %d", m, got[m].Cents)
		}
	}
}

func TestStatusBreakdown(t *testing.T) {
	rows := []TitheRow{
		{Month: "Março", Paid: PaidYes},
		{Month: "Março", Paid: PaidNo},
		{Month: "Março", Paid: PaidNo},
		{Month: "Abril", Paid: PaidYes},
	}
	got := StatusBreakdown(rows, "Março")
	if got[PaidYes] != 1 || got[PaidNo] != 2 {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
}

func TestFilterAttendance(t *testing.T) {
	rows := []AttendanceRow{
		{Month: "Janeiro", Leader: "A", Category: CategoryJovens, Type: ActivityCelula},
		{Month: "Janeiro", Leader: "G", Category: CategoryAdolescentes, Type: ActivityCelula},
		{Month: "Fevereiro", Leader: "A", Category: CategoryJovens, Type: ActivityCelula},
	}
	if got := FilterAttendance(rows, "Janeiro", ""); len(got) != 2 {
		t.Fatalf("month filter: got %d rows", len(got))
	}
	if got := FilterAttendance(rows, "Janeiro", CategoryJovens); len(got) != 1 || got[0].Leader != "A" {
		t.Fatalf("category filter: got %+v", got)
	}
}

func TestTotalPaid(t *testing.T) {
	rows := []TitheRow{
		{Amount: Money{Cents: 100}, Paid: PaidYes},
		{Amount: Money{Cents: 250}, Paid: PaidYes},
		{Amount: Money{Cents: 999}, Paid: PaidNo},
	}
	if got := TotalPaid(rows); got.Cents != 350 {
		t.Fatalf("got %d, want 350", got.Cents)
	}
}
