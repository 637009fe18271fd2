package memory

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"radicais/internal/core"
	"radicais/internal/sheets"
)

// Store keeps both ledgers in memory. It is the default backend for local
// runs and the workhorse of the test suite.
type Store struct {
	mu         sync.Mutex
	tithes     []core.TitheRow
	attendance []core.AttendanceRow
}

var _ sheets.LedgerStore = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// NewFromFiles seeds the store from dizimos.csv and frequencia.csv in base,
// the "local file" flavor of the backing store. Missing or malformed files
// simply leave that table empty; the session rebuilds defaults in that case.
func NewFromFiles(base string) *Store {
	s := &Store{}
	if values := readCSV(filepath.Join(base, "dizimos.csv")); values != nil {
		if rows, err := sheets.ParseTitheRows(values); err == nil {
			s.tithes = rows
		} else {
			slog.Warn("Ignoring seed file", "file", "dizimos.csv", "error", err)
		}
	}
	if values := readCSV(filepath.Join(base, "frequencia.csv")); values != nil {
		if rows, err := sheets.ParseAttendanceRows(values); err == nil {
			s.attendance = rows
		} else {
			slog.Warn("Ignoring seed file", "file", "frequencia.csv", "error", err)
		}
	}
	return s
}

func (s *Store) ReadTithes(_ context.Context) ([]core.TitheRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.TitheRow(nil), s.tithes...), nil
}

func (s *Store) ReadAttendance(_ context.Context) ([]core.AttendanceRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.AttendanceRow(nil), s.attendance...), nil
}

func (s *Store) WriteTithes(_ context.Context, rows []core.TitheRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tithes = append([]core.TitheRow(nil), rows...)
	return nil
}

func (s *Store) WriteAttendance(_ context.Context, rows []core.AttendanceRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendance = append([]core.AttendanceRow(nil), rows...)
	return nil
}

func readCSV(path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		slog.Warn("Malformed CSV seed", "file", path, "error", err)
		return nil
	}
	return records
}
