package storage

import (
	"context"
	"database/sql"
	"fmt"

	"radicais/internal/core"
	ports "radicais/internal/sheets"

	_ "modernc.org/sqlite"
)

// Repository persists the two ledgers in SQLite. It implements the same
// snapshot semantics as the remote spreadsheet: every write replaces the
// whole table inside one transaction, and reads return rows in the order
// they were written.
type Repository struct {
	db *sql.DB
}

var _ ports.LedgerStore = (*Repository)(nil)

// NewRepository opens (or creates) the database at path and applies
// pending migrations.
func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Snapshot writes are serialized by the session; one connection keeps
	// modernc's file locking out of the picture.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) ReadTithes(ctx context.Context) ([]core.TitheRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT month, leader, category, amount_cents, paid
		FROM tithes ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("query tithes: %w", err)
	}
	defer rows.Close()

	var out []core.TitheRow
	for rows.Next() {
		var t core.TitheRow
		var category, paid string
		if err := rows.Scan(&t.Month, &t.Leader, &category, &t.Amount.Cents, &paid); err != nil {
			return nil, fmt.Errorf("scan tithe row: %w", err)
		}
		t.Category = core.Category(category)
		t.Paid = core.PaidFlag(paid)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tithes: %w", err)
	}
	return out, nil
}

func (r *Repository) ReadAttendance(ctx context.Context) ([]core.AttendanceRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT month, leader, category, activity,
		       s1_me, s1_fa, s1_vi,
		       s2_me, s2_fa, s2_vi,
		       s3_me, s3_fa, s3_vi,
		       s4_me, s4_fa, s4_vi,
		       s5_me, s5_fa, s5_vi
		FROM attendance ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	defer rows.Close()

	var out []core.AttendanceRow
	for rows.Next() {
		var a core.AttendanceRow
		var category, activity string
		dest := []any{&a.Month, &a.Leader, &category, &activity}
		for i := 0; i < core.WeekSlots; i++ {
			dest = append(dest, &a.Weeks[i].Members, &a.Weeks[i].Active, &a.Weeks[i].Visitors)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan attendance row: %w", err)
		}
		a.Category = core.Category(category)
		a.Type = core.ActivityType(activity)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance: %w", err)
	}
	return out, nil
}

func (r *Repository) WriteTithes(ctx context.Context, in []core.TitheRow) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tithes`); err != nil {
			return fmt.Errorf("clear tithes: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tithes (pos, month, leader, category, amount_cents, paid)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare tithe insert: %w", err)
		}
		defer stmt.Close()

		for i, t := range in {
			if _, err := stmt.ExecContext(ctx, i, t.Month, t.Leader, string(t.Category), t.Amount.Cents, string(t.Paid)); err != nil {
				return fmt.Errorf("insert tithe %s/%s: %w", t.Month, t.Leader, err)
			}
		}
		return nil
	})
}

func (r *Repository) WriteAttendance(ctx context.Context, in []core.AttendanceRow) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM attendance`); err != nil {
			return fmt.Errorf("clear attendance: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO attendance (pos, month, leader, category, activity,
				s1_me, s1_fa, s1_vi,
				s2_me, s2_fa, s2_vi,
				s3_me, s3_fa, s3_vi,
				s4_me, s4_fa, s4_vi,
				s5_me, s5_fa, s5_vi)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare attendance insert: %w", err)
		}
		defer stmt.Close()

		for i, a := range in {
			args := []any{i, a.Month, a.Leader, string(a.Category), string(a.Type)}
			for _, w := range a.Weeks {
				args = append(args, w.Members, w.Active, w.Visitors)
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("insert attendance %s/%s/%s: %w", a.Month, a.Leader, a.Type, err)
			}
		}
		return nil
	})
}

// BumpRevision records a completed save and returns the new revision number.
func (r *Repository) BumpRevision(ctx context.Context) (int64, error) {
	var revision int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE ledger_revisions
		SET revision = revision + 1, saved_at = datetime('now')
		WHERE id = 1
		RETURNING revision`).Scan(&revision)
	if err != nil {
		return 0, fmt.Errorf("bump revision: %w", err)
	}
	return revision, nil
}

// Revision returns the revision number of the last completed save.
func (r *Repository) Revision(ctx context.Context) (int64, error) {
	var revision int64
	err := r.db.QueryRowContext(ctx, `SELECT revision FROM ledger_revisions WHERE id = 1`).Scan(&revision)
	if err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	return revision, nil
}

func (r *Repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
