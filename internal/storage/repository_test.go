package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"radicais/internal/core"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	tithes, attendance := core.BuildDefaultLedgers(core.DefaultRoster(), core.Months, core.ActivityTypes)
	tithes[0].Amount = core.Money{Cents: 12550}
	tithes[0].Paid = core.PaidYes
	attendance[3].Weeks[1] = core.WeekSlot{Members: 7, Active: 5, Visitors: 2}

	if err := repo.WriteTithes(ctx, tithes); err != nil {
		t.Fatalf("WriteTithes: %v", err)
	}
	if err := repo.WriteAttendance(ctx, attendance); err != nil {
		t.Fatalf("WriteAttendance: %v", err)
	}

	gotTithes, err := repo.ReadTithes(ctx)
	if err != nil {
		t.Fatalf("ReadTithes: %v", err)
	}
	if !reflect.DeepEqual(gotTithes, tithes) {
		t.Fatalf("tithes round trip mismatch")
	}

	gotAttendance, err := repo.ReadAttendance(ctx)
	if err != nil {
		t.Fatalf("ReadAttendance: %v", err)
	}
	if !reflect.DeepEqual(gotAttendance, attendance) {
		t.Fatalf("attendance round trip mismatch")
	}
}

func TestRepositoryWriteReplacesSnapshot(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := []core.TitheRow{
		{Month: "Janeiro", Leader: "Giovana", Category: core.CategoryAdolescentes, Paid: core.PaidNo},
		{Month: "Janeiro", Leader: "Pedro", Category: core.CategoryAdolescentes, Paid: core.PaidNo},
	}
	if err := repo.WriteTithes(ctx, first); err != nil {
		t.Fatalf("WriteTithes: %v", err)
	}

	second := []core.TitheRow{
		{Month: "Fevereiro", Leader: "Bella", Category: core.CategoryAdolescentes, Amount: core.Money{Cents: 500}, Paid: core.PaidYes},
	}
	if err := repo.WriteTithes(ctx, second); err != nil {
		t.Fatalf("WriteTithes: %v", err)
	}

	got, err := repo.ReadTithes(ctx)
	if err != nil {
		t.Fatalf("ReadTithes: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("got %v, want %v", got, second)
	}
}

func TestRepositoryEmptyTables(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	tithes, err := repo.ReadTithes(ctx)
	if err != nil {
		t.Fatalf("ReadTithes: %v", err)
	}
	if len(tithes) != 0 {
		t.Fatalf("expected no tithes, got %d", len(tithes))
	}

	attendance, err := repo.ReadAttendance(ctx)
	if err != nil {
		t.Fatalf("ReadAttendance: %v", err)
	}
	if len(attendance) != 0 {
		t.Fatalf("expected no attendance rows, got %d", len(attendance))
	}
}

func TestRepositoryRevision(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rev, err := repo.Revision(ctx)
	if err != nil {
		t.Fatalf("Revision: %v", err)
	}
	if rev != 0 {
		t.Fatalf("fresh database revision = %d, want 0", rev)
	}

	for want := int64(1); want <= 3; want++ {
		got, err := repo.BumpRevision(ctx)
		if err != nil {
			t.Fatalf("BumpRevision: %v", err)
		}
		if got != want {
			t.Fatalf("BumpRevision = %d, want %d", got, want)
		}
	}
}
