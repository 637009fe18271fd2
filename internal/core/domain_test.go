package core

import (
	"errors"
	"testing"
)

func TestAttendanceRowValidate(t *testing.T) {
	good := AttendanceRow{Month: "Janeiro", Leader: "A", Category: CategoryJovens, Type: ActivityCelula}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []AttendanceRow{
		{Month: "Foo", Leader: "A", Category: CategoryJovens, Type: ActivityCelula},
		{Month: "Janeiro", Leader: "", Category: CategoryJovens, Type: ActivityCelula},
		{Month: "Janeiro", Leader: "A", Category: "Outro", Type: ActivityCelula},
		{Month: "Janeiro", Leader: "A", Category: CategoryJovens, Type: "Ensaio"},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}

	neg := good
	neg.Weeks[2].Visitors = -1
	if err := neg.Validate(); !errors.Is(err, ErrNegativeCount) {
		t.Fatalf("expected ErrNegativeCount, got %v", err)
	}
}

func TestTitheRowValidate(t *testing.T) {
	good := TitheRow{Month: "Janeiro", Leader: "A", Category: CategoryJovens, Amount: Money{Cents: 0}, Paid: PaidNo}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	neg := good
	neg.Amount.Cents = -1
	if err := neg.Validate(); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}

	bad := good
	bad.Paid = "Talvez"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for invalid paid flag")
	}
}

func TestKeyEquality(t *testing.T) {
	a := AttendanceRow{Month: "Maio", Leader: "A", Type: ActivityCulto}
	b := AttendanceRow{Month: "Maio", Leader: "A", Type: ActivityCulto, Category: CategoryJovens}
	if a.Key() != b.Key() {
		t.Fatalf("keys should ignore non-key fields")
	}
	c := AttendanceRow{Month: "Maio", Leader: "A", Type: ActivityCelula}
	if a.Key() == c.Key() {
		t.Fatalf("activity type must participate in the key")
	}
}
