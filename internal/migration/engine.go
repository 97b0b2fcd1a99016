package migration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/apperror"
	"taskboard/internal/model"
)

var (
	// ErrNoRollbackFile is returned when the most recent migration has no
	// matching *.rollback.sql script. The ledger is left untouched.
	ErrNoRollbackFile = errors.New("no rollback file for last migration")
)

const rollbackSuffix = ".rollback.sql"

// Engine applies a directory of versioned SQL scripts to the database
// exactly once each, in lexicographic filename order, and records every
// fully applied file in the migrations ledger. Filenames must carry a
// sortable prefix (e.g. 001_, 002_); the engine does not parse versions.
type Engine struct {
	db  *gorm.DB
	dir string

	// Transactional wraps each migration file in a single transaction.
	// Off by default: the contract is best-effort sequential apply, and
	// a failed file is retryable after fixing the script, with any
	// statements that already ran left in place.
	Transactional bool
}

func NewEngine(db *gorm.DB, dir string) *Engine {
	return &Engine{db: db, dir: dir}
}

// Run ensures the ledger table exists and applies every pending migration
// in order. Already-recorded files are skipped, so a second run with no
// new files is a no-op. The run aborts on the first failing statement;
// the failing file is not recorded and the run can be retried.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.ensureLedger(ctx); err != nil {
		return err
	}

	files, err := e.discover()
	if err != nil {
		return err
	}

	for _, filename := range files {
		applied, err := e.isApplied(ctx, filename)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := e.runSingleMigration(ctx, filename); err != nil {
			return err
		}
	}
	return nil
}

// RollbackLast undoes the single most recently applied migration by
// executing its paired rollback script and deleting its ledger row. It
// returns the rolled-back filename, or "" when the ledger is empty.
func (e *Engine) RollbackLast(ctx context.Context) (string, error) {
	if err := e.ensureLedger(ctx); err != nil {
		return "", err
	}

	var rec model.MigrationRecord
	res := e.db.WithContext(ctx).
		Raw("SELECT filename, executed_at FROM migrations ORDER BY executed_at DESC LIMIT 1").
		Scan(&rec)
	if res.Error != nil {
		return "", fmt.Errorf("failed to read migration ledger: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", nil
	}

	rollbackFile := strings.TrimSuffix(rec.Filename, ".sql") + rollbackSuffix
	path := filepath.Join(e.dir, rollbackFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNoRollbackFile, rec.Filename)
		}
		return "", err
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	if err := e.execStatements(ctx, e.db, rollbackFile, string(contents)); err != nil {
		return "", err
	}

	err = e.db.WithContext(ctx).
		Exec("DELETE FROM migrations WHERE filename = ?", rec.Filename).Error
	if err != nil {
		return "", fmt.Errorf("failed to delete ledger row for %s: %w", rec.Filename, err)
	}
	return rec.Filename, nil
}

// Executed returns the ledger in ascending executed_at order.
func (e *Engine) Executed(ctx context.Context) ([]model.MigrationRecord, error) {
	if err := e.ensureLedger(ctx); err != nil {
		return nil, err
	}

	var records []model.MigrationRecord
	err := e.db.WithContext(ctx).
		Raw("SELECT filename, executed_at FROM migrations ORDER BY executed_at ASC").
		Scan(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read migration ledger: %w", err)
	}
	return records, nil
}

// Reset drops every core table, ledger included.
func (e *Engine) Reset(ctx context.Context) error {
	// Reverse dependency order; CASCADE covers stray references.
	tables := []string{"permissions", "tasks", "boards", "users", "migrations"}
	for _, table := range tables {
		err := e.db.WithContext(ctx).
			Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error
		if err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

func (e *Engine) ensureLedger(ctx context.Context) error {
	err := e.db.WithContext(ctx).Exec(
		"CREATE TABLE IF NOT EXISTS migrations (filename TEXT PRIMARY KEY, executed_at TIMESTAMPTZ NOT NULL)",
	).Error
	if err != nil {
		return fmt.Errorf("failed to create migration ledger: %w", err)
	}
	return nil
}

// discover lists migration scripts, excluding rollback files, sorted
// lexicographically. Sort order is the only ordering signal.
func (e *Engine) discover() ([]string, error) {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory %s: %w", e.dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		if strings.Contains(name, ".rollback.") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func (e *Engine) isApplied(ctx context.Context, filename string) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Raw("SELECT count(*) FROM migrations WHERE filename = ?", filename).
		Scan(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check ledger for %s: %w", filename, err)
	}
	return count > 0, nil
}

func (e *Engine) runSingleMigration(ctx context.Context, filename string) error {
	contents, err := os.ReadFile(filepath.Join(e.dir, filename))
	if err != nil {
		return err
	}

	apply := func(tx *gorm.DB) error {
		if err := e.execStatements(ctx, tx, filename, string(contents)); err != nil {
			return err
		}
		err := tx.WithContext(ctx).Exec(
			"INSERT INTO migrations (filename, executed_at) VALUES (?, ?)",
			filename, time.Now().UTC(),
		).Error
		if err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}
		return nil
	}

	if e.Transactional {
		return e.db.WithContext(ctx).Transaction(apply)
	}
	return apply(e.db)
}

// execStatements runs each non-empty statement of a script in sequence.
// Statements are split on bare ";" boundaries; semicolons inside string
// literals or procedural blocks are not understood.
func (e *Engine) execStatements(ctx context.Context, tx *gorm.DB, filename, contents string) error {
	for _, stmt := range splitStatements(contents) {
		if err := tx.WithContext(ctx).Exec(stmt).Error; err != nil {
			return &apperror.MigrationError{Filename: filename, Statement: stmt, Err: err}
		}
	}
	return nil
}

func splitStatements(contents string) []string {
	var stmts []string
	for _, raw := range strings.Split(contents, ";") {
		stmt := strings.TrimSpace(raw)
		if stmt == "" {
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}
