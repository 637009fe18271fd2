package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"radicais/internal/core"
	ports "radicais/internal/sheets"

	"golang.org/x/sync/errgroup"
)

var (
	ErrRowNotFound   = errors.New("ledger row not found")
	ErrLeaderExists  = errors.New("leader already on roster")
	ErrUnknownLeader = errors.New("leader not on roster")
)

// LoadStatus reports how a table made it into the session.
type LoadStatus int

const (
	// StatusLoaded means the stored table passed validation and was adopted.
	StatusLoaded LoadStatus = iota
	// StatusDefaulted means the stored table was empty or unusable and the
	// session regenerated it from the roster.
	StatusDefaulted
	// StatusTransportError means the store could not be reached. The session
	// still runs on regenerated defaults so the dashboard stays usable.
	StatusTransportError
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusDefaulted:
		return "defaulted"
	case StatusTransportError:
		return "transport-error"
	}
	return "unknown"
}

// LoadResult carries the per-table outcome of a Load.
type LoadResult struct {
	Tithes     LoadStatus
	Attendance LoadStatus
}

// Session holds the in-memory working copy of both ledgers. All edits land
// here first; Save pushes full snapshots back to the store. One process owns
// one session, so concurrent saves from separate processes follow
// last-writer-wins semantics with no merging.
type Session struct {
	mu       sync.RWMutex
	store    ports.LedgerStore
	roster   core.Roster
	autoPaid bool

	tithes     []core.TitheRow
	attendance []core.AttendanceRow
	revision   int64
}

// NewSession builds an empty session over store. Call Load before serving.
// When autoPaid is set, the paid flag on tithe edits is derived from the
// amount instead of taken from the caller.
func NewSession(store ports.LedgerStore, roster core.Roster, autoPaid bool) (*Session, error) {
	if store == nil {
		return nil, errors.New("nil ledger store")
	}
	if err := roster.Validate(); err != nil {
		return nil, fmt.Errorf("invalid roster: %w", err)
	}
	return &Session{store: store, roster: roster, autoPaid: autoPaid}, nil
}

// Load reads both tables and adopts whichever pass validation; the rest are
// regenerated from the roster. Load never fails: a broken store degrades to
// defaults and the outcome is reported per table in the result.
func (s *Session) Load(ctx context.Context) LoadResult {
	defTithes, defAttendance := core.BuildDefaultLedgers(s.roster, core.Months, core.ActivityTypes)

	var result LoadResult

	tithes, err := s.store.ReadTithes(ctx)
	result.Tithes = classify(err, len(tithes) > 0 && s.anyKnownTitheLeader(tithes))
	if result.Tithes != StatusLoaded {
		tithes = defTithes
	}

	attendance, err := s.store.ReadAttendance(ctx)
	result.Attendance = classify(err, len(attendance) > 0 && s.anyKnownAttendanceLeader(attendance))
	if result.Attendance != StatusLoaded {
		attendance = defAttendance
	}

	s.mu.Lock()
	s.tithes = s.normalizeTitheCategories(tithes)
	s.attendance = s.normalizeAttendanceCategories(attendance)
	s.mu.Unlock()
	return result
}

func classify(err error, usable bool) LoadStatus {
	switch {
	case errors.Is(err, ports.ErrSchemaMismatch):
		return StatusDefaulted
	case err != nil:
		return StatusTransportError
	case !usable:
		return StatusDefaulted
	}
	return StatusLoaded
}

func (s *Session) anyKnownTitheLeader(rows []core.TitheRow) bool {
	for _, r := range rows {
		if _, ok := s.roster.CategoryOf(r.Leader); ok {
			return true
		}
	}
	return false
}

func (s *Session) anyKnownAttendanceLeader(rows []core.AttendanceRow) bool {
	for _, r := range rows {
		if _, ok := s.roster.CategoryOf(r.Leader); ok {
			return true
		}
	}
	return false
}

// The roster is the single source of truth for a leader's category. Stored
// categories for known leaders are overwritten on load so a hand-edited
// spreadsheet cannot move a leader between cohorts.
func (s *Session) normalizeTitheCategories(rows []core.TitheRow) []core.TitheRow {
	out := make([]core.TitheRow, len(rows))
	copy(out, rows)
	for i := range out {
		if cat, ok := s.roster.CategoryOf(out[i].Leader); ok {
			out[i].Category = cat
		}
	}
	return out
}

func (s *Session) normalizeAttendanceCategories(rows []core.AttendanceRow) []core.AttendanceRow {
	out := make([]core.AttendanceRow, len(rows))
	copy(out, rows)
	for i := range out {
		if cat, ok := s.roster.CategoryOf(out[i].Leader); ok {
			out[i].Category = cat
		}
	}
	return out
}

// LocateTithe returns a copy of the row keyed (month, leader).
func (s *Session) LocateTithe(month, leader string) (core.TitheRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.tithes {
		if r.Month == month && r.Leader == leader {
			return r, nil
		}
	}
	return core.TitheRow{}, fmt.Errorf("%w: tithe %s/%s", ErrRowNotFound, month, leader)
}

// LocateAttendance returns a copy of the row keyed (month, leader, activity).
func (s *Session) LocateAttendance(month, leader string, typ core.ActivityType) (core.AttendanceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.attendance {
		if r.Month == month && r.Leader == leader && r.Type == typ {
			return r, nil
		}
	}
	return core.AttendanceRow{}, fmt.Errorf("%w: attendance %s/%s/%s", ErrRowNotFound, month, leader, typ)
}

// ApplyTitheEdit updates amount and paid flag on an existing row. The row's
// category never changes here; only the roster decides categories.
func (s *Session) ApplyTitheEdit(month, leader string, amount core.Money, paid core.PaidFlag) error {
	if amount.Cents < 0 {
		return core.ErrNegativeAmount
	}
	if s.autoPaid {
		paid = core.PaidNo
		if amount.Cents > 0 {
			paid = core.PaidYes
		}
	} else if err := paid.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tithes {
		if s.tithes[i].Month == month && s.tithes[i].Leader == leader {
			s.tithes[i].Amount = amount
			s.tithes[i].Paid = paid
			return nil
		}
	}
	return fmt.Errorf("%w: tithe %s/%s", ErrRowNotFound, month, leader)
}

// ApplyAttendanceEdit replaces all week-slots on an existing row.
func (s *Session) ApplyAttendanceEdit(month, leader string, typ core.ActivityType, weeks [core.WeekSlots]core.WeekSlot) error {
	for _, w := range weeks {
		if err := w.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.attendance {
		if s.attendance[i].Month == month && s.attendance[i].Leader == leader && s.attendance[i].Type == typ {
			s.attendance[i].Weeks = weeks
			return nil
		}
	}
	return fmt.Errorf("%w: attendance %s/%s/%s", ErrRowNotFound, month, leader, typ)
}

// AddLeader registers a new leader and appends zero-filled rows for every
// month to both ledgers.
func (s *Session) AddLeader(name string, category core.Category) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyLeader
	}
	if err := category.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roster.CategoryOf(name); ok {
		return fmt.Errorf("%w: %q", ErrLeaderExists, name)
	}
	grouped := false
	for i := range s.roster {
		if s.roster[i].Category == category {
			s.roster[i].Leaders = append(s.roster[i].Leaders, name)
			grouped = true
		}
	}
	if !grouped {
		s.roster = append(s.roster, core.RosterGroup{Category: category, Leaders: []string{name}})
	}
	for _, m := range core.Months {
		s.tithes = append(s.tithes, core.TitheRow{
			Month: m, Leader: name, Category: category, Paid: core.PaidNo,
		})
		for _, t := range core.ActivityTypes {
			s.attendance = append(s.attendance, core.AttendanceRow{
				Month: m, Leader: name, Category: category, Type: t,
			})
		}
	}
	return nil
}

// RemoveLeader drops a leader from the roster and deletes every row of theirs
// from both ledgers.
func (s *Session) RemoveLeader(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roster.CategoryOf(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLeader, name)
	}
	for i := range s.roster {
		kept := s.roster[i].Leaders[:0]
		for _, n := range s.roster[i].Leaders {
			if n != name {
				kept = append(kept, n)
			}
		}
		s.roster[i].Leaders = kept
	}

	tithes := s.tithes[:0]
	for _, r := range s.tithes {
		if r.Leader != name {
			tithes = append(tithes, r)
		}
	}
	s.tithes = tithes

	attendance := s.attendance[:0]
	for _, r := range s.attendance {
		if r.Leader != name {
			attendance = append(attendance, r)
		}
	}
	s.attendance = attendance
	return nil
}

// revisionBumper is implemented by stores that persist a save counter
// (the SQLite repository). The session adopts the stored counter so the
// revision in saved-ledger messages matches what the mirror worker reads.
type revisionBumper interface {
	BumpRevision(ctx context.Context) (int64, error)
}

// Save writes full snapshots of both tables in parallel. A failure on either
// table leaves the in-memory copy untouched so the user can retry; the
// revision only advances when both writes land.
func (s *Session) Save(ctx context.Context) error {
	s.mu.RLock()
	tithes := make([]core.TitheRow, len(s.tithes))
	copy(tithes, s.tithes)
	attendance := make([]core.AttendanceRow, len(s.attendance))
	copy(attendance, s.attendance)
	s.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.store.WriteTithes(gctx, tithes); err != nil {
			return fmt.Errorf("save %s: %w", ports.TitheTable, err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.store.WriteAttendance(gctx, attendance); err != nil {
			return fmt.Errorf("save %s: %w", ports.AttendanceTable, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rb, ok := s.store.(revisionBumper); ok {
		rev, err := rb.BumpRevision(ctx)
		if err != nil {
			return fmt.Errorf("bump revision: %w", err)
		}
		s.revision = rev
		return nil
	}
	s.revision++
	return nil
}

// Revision counts completed saves in this session's lifetime.
func (s *Session) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Roster returns a deep copy of the current roster.
func (s *Session) Roster() core.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(core.Roster, len(s.roster))
	for i, g := range s.roster {
		out[i] = core.RosterGroup{
			Category: g.Category,
			Leaders:  append([]string(nil), g.Leaders...),
		}
	}
	return out
}

// AttendanceFor returns copies of the attendance rows for one month,
// optionally narrowed to a category.
func (s *Session) AttendanceFor(month string, cat core.Category) []core.AttendanceRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.FilterAttendance(s.attendance, month, cat)
}

// TithesFor returns copies of the tithe rows for one month.
func (s *Session) TithesFor(month string) []core.TitheRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.FilterTithes(s.tithes, month)
}

// AllTithes returns a copy of the whole tithe ledger.
func (s *Session) AllTithes() []core.TitheRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.TitheRow, len(s.tithes))
	copy(out, s.tithes)
	return out
}

// AllAttendance returns a copy of the whole attendance ledger.
func (s *Session) AllAttendance() []core.AttendanceRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.AttendanceRow, len(s.attendance))
	copy(out, s.attendance)
	return out
}
