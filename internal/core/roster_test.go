package core

import (
	"reflect"
	"testing"
)

func testRoster() Roster {
	return Roster{
		{Category: CategoryJovens, Leaders: []string{"A e B", "C e D", "E e F"}},
		{Category: CategoryAdolescentes, Leaders: []string{"G", "H", "I", "J", "K"}},
	}
}

func TestBuildDefaultLedgersCardinality(t *testing.T) {
	tithes, attendance := BuildDefaultLedgers(testRoster(), Months, ActivityTypes)
	if len(tithes) != 12*8 {
		t.Fatalf("expected 96 tithe rows, got %d", len(tithes))
	}
	if len(attendance) != 12*8*2 {
		t.Fatalf("expected 192 attendance rows, got %d", len(attendance))
	}

	tk := map[TitheKey]bool{}
	for _, r := range tithes {
		if tk[r.Key()] {
			t.Fatalf("duplicate tithe key %+v", r.Key())
		}
		tk[r.Key()] = true
		if r.Amount.Cents != 0 || r.Paid != PaidNo {
			t.Fatalf("tithe row not zero-initialized: %+v", r)
		}
	}
	ak := map[AttendanceKey]bool{}
	for _, r := range attendance {
		if ak[r.Key()] {
			t.Fatalf("duplicate attendance key %+v", r.Key())
		}
		ak[r.Key()] = true
		for _, w := range r.Weeks {
			if w != (WeekSlot{}) {
				t.Fatalf("attendance row not zero-initialized: %+v", r)
			}
		}
	}
}

func TestBuildDefaultLedgersDeterministic(t *testing.T) {
	t1, a1 := BuildDefaultLedgers(DefaultRoster(), Months, ActivityTypes)
	t2, a2 := BuildDefaultLedgers(DefaultRoster(), Months, ActivityTypes)
	if !reflect.DeepEqual(t1, t2) || !reflect.DeepEqual(a1, a2) {
		t.Fatalf("BuildDefaultLedgers is not deterministic")
	}
}

func TestRosterValidateRejectsDuplicates(t *testing.T) {
	r := Roster{
		{Category: CategoryJovens, Leaders: []string{"Pedro"}},
		{Category: CategoryAdolescentes, Leaders: []string{"Pedro"}},
	}
	if err := r.Validate(); err == nil {
		t.Fatalf("expected error for cross-category duplicate")
	}
	if err := DefaultRoster().Validate(); err != nil {
		t.Fatalf("default roster should be valid: %v", err)
	}
}

func TestRosterCategoryOf(t *testing.T) {
	r := DefaultRoster()
	if c, ok := r.CategoryOf("Giovana"); !ok || c != CategoryAdolescentes {
		t.Fatalf("Giovana: got %q ok=%v", c, ok)
	}
	if _, ok := r.CategoryOf("ninguém"); ok {
		t.Fatalf("unknown leader should not resolve")
	}
}
