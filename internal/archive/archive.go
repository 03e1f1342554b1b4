// Package archive exports the exercise history to a SQLite database and
// reads it back, for querying outside of hf.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/scbrown/hiitfit/internal/model"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// Archive is a SQLite copy of the history.
type Archive struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at dbPath, creating the parent
// directory and running schema migrations.
func New(dbPath string) (*Archive, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return a, nil
}

func (a *Archive) migrate() error {
	if _, err := a.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("create version table: %w", err)
	}

	var ver int
	err := a.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&ver)
	if errors.Is(err, sql.ErrNoRows) {
		ver = 0
	} else if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if ver > schemaVersion {
		return fmt.Errorf("archive schema version %d is newer than supported %d", ver, schemaVersion)
	}

	if ver < 1 {
		if err := a.migrateV1(); err != nil {
			return err
		}
	}
	return nil
}

func (a *Archive) migrateV1() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS days (
			id       TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			day      TEXT NOT NULL,
			date     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_days_day ON days(day)`,
		`CREATE TABLE IF NOT EXISTS exercises (
			day_id   TEXT NOT NULL REFERENCES days(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name     TEXT NOT NULL,
			PRIMARY KEY (day_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exercises_name ON exercises(name)`,
		`INSERT INTO schema_version (version) VALUES (1)`,
	}
	for _, stmt := range stmts {
		if _, err := a.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate v1: %w", err)
		}
	}
	return nil
}

// WriteHistory replaces the archive contents with days in a single
// transaction. Day order is kept in the position column.
func (a *Archive) WriteHistory(ctx context.Context, days []model.ExerciseDay) (err error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, tx.Rollback())
		}
	}()

	for _, stmt := range []string{`DELETE FROM exercises`, `DELETE FROM days`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear archive: %w", err)
		}
	}

	dayStmt, err := tx.PrepareContext(ctx, `INSERT INTO days (id, position, day, date) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare days: %w", err)
	}
	defer dayStmt.Close()
	exStmt, err := tx.PrepareContext(ctx, `INSERT INTO exercises (day_id, position, name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare exercises: %w", err)
	}
	defer exStmt.Close()

	for i, d := range days {
		if _, err = dayStmt.ExecContext(ctx, d.ID, i, d.Date.Local().Format("2006-01-02"), d.Date.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert day %s: %w", d.ID, err)
		}
		for j, name := range d.Exercises {
			if _, err = exStmt.ExecContext(ctx, d.ID, j, name); err != nil {
				return fmt.Errorf("insert exercise for day %s: %w", d.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReadDays returns the archived days in their original order.
func (a *Archive) ReadDays(ctx context.Context) ([]model.ExerciseDay, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id, date FROM days ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	var days []model.ExerciseDay
	index := make(map[string]int)
	for rows.Next() {
		var id, date string
		if err := rows.Scan(&id, &date); err != nil {
			return nil, multierr.Append(fmt.Errorf("scan day: %w", err), rows.Close())
		}
		t, err := time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("parse date for day %s: %w", id, err), rows.Close())
		}
		index[id] = len(days)
		days = append(days, model.ExerciseDay{ID: id, Date: t.Local(), Exercises: []string{}})
	}
	if err := multierr.Append(rows.Err(), rows.Close()); err != nil {
		return nil, fmt.Errorf("iterate days: %w", err)
	}

	rows, err = a.db.QueryContext(ctx, `SELECT day_id, name FROM exercises ORDER BY day_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		days[i].Exercises = append(days[i].Exercises, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercises: %w", err)
	}
	return days, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}
