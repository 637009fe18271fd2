package services

import (
	"context"
	"fmt"
	"log/slog"

	"radicais/internal/cache"
	"radicais/internal/ledger"
	ports "radicais/internal/sheets"
)

// SavedPublisher announces completed saves to interested consumers.
type SavedPublisher interface {
	PublishLedgerSaved(ctx context.Context, revision int64, tables ...string) error
	Close() error
}

// LedgerService orchestrates saves: push the session snapshot to the store,
// drop stale render caches, then notify the mirror worker. Notification is
// best effort; a dead broker never fails a save.
type LedgerService struct {
	session   *ledger.Session
	publisher SavedPublisher
	caches    *cache.Manager
}

func NewLedgerService(session *ledger.Session, publisher SavedPublisher, caches *cache.Manager) *LedgerService {
	return &LedgerService{
		session:   session,
		publisher: publisher,
		caches:    caches,
	}
}

// Session exposes the underlying ledger session for reads and edits.
func (s *LedgerService) Session() *ledger.Session {
	return s.session
}

// Save persists both ledgers and fires the post-save hooks.
func (s *LedgerService) Save(ctx context.Context) error {
	if err := s.session.Save(ctx); err != nil {
		return fmt.Errorf("save ledgers: %w", err)
	}

	if s.caches != nil {
		s.caches.InvalidateAll()
	}

	if err := s.publishSaved(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger saved message",
			"revision", s.session.Revision(), "error", err)
		// Save already landed; the periodic mirror pass covers the gap.
	}

	return nil
}

func (s *LedgerService) publishSaved(ctx context.Context) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No publisher configured, skipping saved message")
		return nil
	}
	return s.publisher.PublishLedgerSaved(ctx, s.session.Revision(), ports.TitheTable, ports.AttendanceTable)
}

// Close releases the publisher connection.
func (s *LedgerService) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
