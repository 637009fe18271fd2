package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestSaturdaysInMonth2026(t *testing.T) {
	cases := []struct {
		month string
		want  []string
	}{
		{"Janeiro", []string{"03/01", "10/01", "17/01", "24/01", "31/01"}},
		{"Fevereiro", []string{"07/02", "14/02", "21/02", "28/02"}},
		{"Maio", []string{"02/05", "09/05", "16/05", "23/05", "30/05"}},
		{"Dezembro", []string{"05/12", "12/12", "19/12", "26/12"}},
	}
	for _, tc := range cases {
		got, err := SaturdaysInMonth(2026, tc.month)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.month, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.month, got, tc.want)
		}
	}
}

func TestSaturdaysInMonthAllMonthsBounded(t *testing.T) {
	for _, m := range Months {
		got, err := SaturdaysInMonth(2026, m)
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if len(got) < 4 || len(got) > 5 {
			t.Fatalf("%s: expected 4 or 5 Saturdays, got %d", m, len(got))
		}
	}
}

func TestSaturdaysInMonthUnknownMonth(t *testing.T) {
	if _, err := SaturdaysInMonth(2026, "Smarch"); !errors.Is(err, ErrUnknownMonth) {
		t.Fatalf("expected ErrUnknownMonth, got %v", err)
	}
}

func TestMonthIndex(t *testing.T) {
	if idx, err := MonthIndex("Janeiro"); err != nil || idx != 1 {
		t.Fatalf("Janeiro: got %d, %v", idx, err)
	}
	if idx, err := MonthIndex("Dezembro"); err != nil || idx != 12 {
		t.Fatalf("Dezembro: got %d, %v", idx, err)
	}
	if _, err := MonthIndex("janeiro"); err == nil {
		t.Fatalf("month names are case sensitive, expected error")
	}
}
