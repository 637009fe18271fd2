package sheets

import (
	"context"
	"errors"

	"radicais/internal/core"
)

// Table names in the backing store.
const (
	TitheTable      = "Dizimos"
	AttendanceTable = "Frequencia"
)

// ErrSchemaMismatch reports that a table exists but is missing its key
// column. Callers treat it like an empty table and rebuild from the static
// roster instead of merging row-by-row.
var ErrSchemaMismatch = errors.New("table schema mismatch")

// Ports for outbound adapters.
type (
	// LedgerReader loads whole tables. An empty slice with a nil error means
	// a legitimately empty table; transport failures come back as errors.
	LedgerReader interface {
		ReadTithes(ctx context.Context) ([]core.TitheRow, error)
		ReadAttendance(ctx context.Context) ([]core.AttendanceRow, error)
	}

	// LedgerWriter replaces a table's full contents. There is no row-level
	// upsert: every save is a snapshot and the last writer wins.
	LedgerWriter interface {
		WriteTithes(ctx context.Context, rows []core.TitheRow) error
		WriteAttendance(ctx context.Context, rows []core.AttendanceRow) error
	}

	// LedgerStore combines both directions.
	LedgerStore interface {
		LedgerReader
		LedgerWriter
	}
)
