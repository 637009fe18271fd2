package worker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"radicais/internal/amqp"
	ports "radicais/internal/sheets"
	"radicais/internal/storage"
)

// MirrorWorker copies ledger snapshots from the SQLite repository to the
// remote spreadsheet. It reacts to saved-ledger messages and also runs a
// periodic pass to recover from missed messages or worker downtime.
type MirrorWorker struct {
	storage *storage.Repository
	remote  ports.LedgerWriter

	// lastMirrored tracks the newest revision pushed upstream, so stale
	// or duplicate messages become no-ops.
	lastMirrored int64
}

func NewMirrorWorker(storage *storage.Repository, remote ports.LedgerWriter) *MirrorWorker {
	return &MirrorWorker{
		storage: storage,
		remote:  remote,
	}
}

// HandleSavedMessage processes a single saved-ledger message from AMQP.
func (w *MirrorWorker) HandleSavedMessage(ctx context.Context, msg *amqp.LedgerSavedMessage) error {
	slog.InfoContext(ctx, "Processing saved message", "revision", msg.Revision)

	if msg.Revision <= w.lastMirrored {
		slog.InfoContext(ctx, "Revision already mirrored, skipping",
			"revision", msg.Revision,
			"last_mirrored", w.lastMirrored)
		return nil
	}

	if err := w.Mirror(ctx); err != nil {
		return fmt.Errorf("mirror revision %d: %w", msg.Revision, err)
	}

	w.lastMirrored = msg.Revision
	return nil
}

// Mirror reads the current snapshot of both tables from SQLite and
// overwrites the remote spreadsheet, both tables in parallel.
func (w *MirrorWorker) Mirror(ctx context.Context) error {
	tithes, err := w.storage.ReadTithes(ctx)
	if err != nil {
		return fmt.Errorf("read tithes: %w", err)
	}
	attendance, err := w.storage.ReadAttendance(ctx)
	if err != nil {
		return fmt.Errorf("read attendance: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := w.remote.WriteTithes(gctx, tithes); err != nil {
			return fmt.Errorf("mirror %s: %w", ports.TitheTable, err)
		}
		return nil
	})
	g.Go(func() error {
		if err := w.remote.WriteAttendance(gctx, attendance); err != nil {
			return fmt.Errorf("mirror %s: %w", ports.AttendanceTable, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Mirrored ledger snapshot",
		"tithe_rows", len(tithes),
		"attendance_rows", len(attendance))
	return nil
}

// PeriodicMirrorCheck mirrors the snapshot when the database has a revision
// the worker has not pushed yet. This is the backup mechanism in case AMQP
// messages are lost.
func (w *MirrorWorker) PeriodicMirrorCheck(ctx context.Context) error {
	revision, err := w.storage.Revision(ctx)
	if err != nil {
		return fmt.Errorf("read revision: %w", err)
	}

	if revision <= w.lastMirrored {
		return nil
	}

	slog.InfoContext(ctx, "Found unmirrored revision",
		"revision", revision,
		"last_mirrored", w.lastMirrored)

	if err := w.Mirror(ctx); err != nil {
		return err
	}
	w.lastMirrored = revision
	return nil
}

// StartupMirrorCheck runs the recovery pass once at worker startup.
func (w *MirrorWorker) StartupMirrorCheck(ctx context.Context) error {
	if err := w.PeriodicMirrorCheck(ctx); err != nil {
		return fmt.Errorf("startup mirror check: %w", err)
	}
	return nil
}
