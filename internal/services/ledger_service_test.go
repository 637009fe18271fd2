package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"radicais/internal/cache"
	"radicais/internal/core"
	"radicais/internal/ledger"
	"radicais/internal/sheets/memory"
)

type fakePublisher struct {
	published []int64
	fail      bool
	closed    bool
}

func (p *fakePublisher) PublishLedgerSaved(_ context.Context, revision int64, _ ...string) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, revision)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func newTestService(t *testing.T, pub SavedPublisher, caches *cache.Manager) *LedgerService {
	t.Helper()
	session, err := ledger.NewSession(memory.New(), core.DefaultRoster(), false)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.Load(context.Background())
	return NewLedgerService(session, pub, caches)
}

func TestSavePublishesRevision(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(t, pub, nil)
	ctx := context.Background()

	if err := svc.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := svc.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if len(pub.published) != 2 || pub.published[0] != 1 || pub.published[1] != 2 {
		t.Fatalf("published revisions = %v, want [1 2]", pub.published)
	}
}

func TestSaveSurvivesDeadBroker(t *testing.T) {
	svc := newTestService(t, &fakePublisher{fail: true}, nil)

	if err := svc.Save(context.Background()); err != nil {
		t.Fatalf("Save with failing publisher: %v", err)
	}
	if got := svc.Session().Revision(); got != 1 {
		t.Fatalf("revision = %d, want 1", got)
	}
}

func TestSaveWithoutPublisher(t *testing.T) {
	svc := newTestService(t, nil, nil)

	if err := svc.Save(context.Background()); err != nil {
		t.Fatalf("Save without publisher: %v", err)
	}
}

func TestSaveInvalidatesCaches(t *testing.T) {
	caches := cache.NewManager()
	partials := cache.NewLRUCache[string](10, time.Minute)
	caches.Register(partials)
	partials.Set("frequencia:Janeiro", "<table>...</table>")

	svc := newTestService(t, nil, caches)
	if err := svc.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if partials.Size() != 0 {
		t.Fatalf("cache size after save = %d, want 0", partials.Size())
	}
}

func TestCloseClosesPublisher(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(t, pub, nil)

	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pub.closed {
		t.Fatal("publisher not closed")
	}
}
