package sheets

import (
	"errors"
	"reflect"
	"testing"

	"radicais/internal/core"
)

func TestTitheRoundTrip(t *testing.T) {
	rows := []core.TitheRow{
		{Month: "Janeiro", Leader: "André e Larissa", Category: core.CategoryJovens, Amount: core.Money{Cents: 12345}, Paid: core.PaidYes},
		{Month: "Fevereiro", Leader: "Giovana", Category: core.CategoryAdolescentes, Amount: core.Money{}, Paid: core.PaidNo},
	}
	got, err := ParseTitheRows(EncodeTitheRows(rows))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, rows)
	}
}

func TestAttendanceRoundTrip(t *testing.T) {
	row := core.AttendanceRow{
		Month: "Maio", Leader: "Pedro", Category: core.CategoryAdolescentes, Type: core.ActivityCulto,
	}
	row.Weeks[0] = core.WeekSlot{Members: 12, Active: 9, Visitors: 3}
	row.Weeks[4] = core.WeekSlot{Members: 1}

	got, err := ParseAttendanceRows(EncodeAttendanceRows([]core.AttendanceRow{row}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0], row) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestParseAttendanceSchemaMismatch(t *testing.T) {
	values := [][]string{
		{"Mês", "Nome", "Categoria"}, // no Discipulador column
		{"Janeiro", "Pedro", "Adolescentes"},
	}
	if _, err := ParseAttendanceRows(values); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestParseTitheSchemaMismatch(t *testing.T) {
	values := [][]string{{"Mês", "Nome", "Valor"}}
	if _, err := ParseTitheRows(values); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestParseEmptyTable(t *testing.T) {
	if rows, err := ParseTitheRows(nil); err != nil || rows != nil {
		t.Fatalf("empty table: rows=%v err=%v", rows, err)
	}
	if rows, err := ParseAttendanceRows([][]string{}); err != nil || rows != nil {
		t.Fatalf("empty table: rows=%v err=%v", rows, err)
	}
}

func TestParseTitheTolerantCells(t *testing.T) {
	values := [][]string{
		TitheHeader(),
		{"Janeiro", "Pedro", "Adolescentes", "10,50", "Sim"},
		{"Janeiro", "", "Adolescentes", "99", "Sim"},        // blank leader skipped
		{"Janeiro", "Bella", "Adolescentes", "n/a", "Foo"},  // junk amount and flag
		{"Fevereiro", "Giovana", "Adolescentes", "3.0", ""}, // float export, blank flag
	}
	rows, err := ParseTitheRows(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Amount.Cents != 1050 || rows[0].Paid != core.PaidYes {
		t.Fatalf("row 0: %+v", rows[0])
	}
	if rows[1].Amount.Cents != 0 || rows[1].Paid != core.PaidNo {
		t.Fatalf("junk cells should degrade to zero/Não: %+v", rows[1])
	}
	if rows[2].Amount.Cents != 300 {
		t.Fatalf("row 2: %+v", rows[2])
	}
}

func TestAttendanceHeaderShape(t *testing.T) {
	h := AttendanceHeader()
	if len(h) != 4+core.WeekSlots*3 {
		t.Fatalf("unexpected header length %d", len(h))
	}
	if h[4] != "S1_ME" || h[len(h)-1] != "S5_VI" {
		t.Fatalf("unexpected week columns: %v", h)
	}
}
