// Package sqlite is a single-file template store for kiosk deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dtroode/fingerprint-server/database"
	"github.com/dtroode/fingerprint-server/internal/model"
)

const (
	sqliteBusyCode             = 5
	sqliteConstraintUniqueCode = 2067
	busyRetryAttempts          = 5
	busyRetryInitialBackoff    = 10 * time.Millisecond
	busyRetryMaxBackoff        = 200 * time.Millisecond
)

var _ model.TemplateStore = (*TemplateRepository)(nil)

type TemplateRepository struct {
	db *sql.DB
}

// Open opens or creates the database file at path and applies migrations.
func Open(ctx context.Context, path string) (*TemplateRepository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	if err := database.MigrateDB(ctx, db, database.DialectSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return NewTemplateRepository(db), nil
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *TemplateRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *TemplateRepository) Insert(ctx context.Context, enrolled model.EnrolledTemplate) error {
	query := `INSERT INTO fingerprints (id, identity, template, created_at) VALUES (?, ?, ?, ?)`

	err := retryOnBusy(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query,
			enrolled.ID.String(), enrolled.Identity, []byte(enrolled.Template),
			enrolled.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: identity %q", model.ErrAlreadyExists, enrolled.Identity)
		}
		return storeError("failed to insert template", err)
	}

	return nil
}

func (r *TemplateRepository) FindByIdentity(ctx context.Context, identity string) (model.EnrolledTemplate, error) {
	query := `SELECT id, identity, template, created_at FROM fingerprints WHERE identity = ?`

	var enrolled model.EnrolledTemplate
	err := retryOnBusy(ctx, func() error {
		var err error
		enrolled, err = scanTemplate(r.db.QueryRowContext(ctx, query, identity))
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.EnrolledTemplate{}, model.ErrNotFound
		}
		return model.EnrolledTemplate{}, storeError("failed to get template by identity", err)
	}

	return enrolled, nil
}

func (r *TemplateRepository) ListAll(ctx context.Context) ([]model.EnrolledTemplate, error) {
	query := `SELECT id, identity, template, created_at FROM fingerprints ORDER BY seq`

	var all []model.EnrolledTemplate
	err := retryOnBusy(ctx, func() error {
		rows, err := r.db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		all = make([]model.EnrolledTemplate, 0)
		for rows.Next() {
			enrolled, err := scanTemplate(rows)
			if err != nil {
				return err
			}
			all = append(all, enrolled)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, storeError("failed to list templates", err)
	}

	return all, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (model.EnrolledTemplate, error) {
	var (
		id, identity, createdAt string
		template                []byte
	)
	if err := row.Scan(&id, &identity, &template, &createdAt); err != nil {
		return model.EnrolledTemplate{}, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return model.EnrolledTemplate{}, fmt.Errorf("failed to parse template id: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.EnrolledTemplate{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return model.EnrolledTemplate{
		ID:        parsedID,
		Identity:  identity,
		Template:  model.Template(template),
		CreatedAt: created,
	}, nil
}

func sqliteCode(err error) int {
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		return coder.Code()
	}
	return 0
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	if sqliteCode(err) == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func isUniqueViolation(err error) bool {
	if sqliteCode(err) == sqliteConstraintUniqueCode {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// storeError marks a still-busy database as ErrStoreUnavailable.
func storeError(msg string, err error) error {
	if isSQLiteBusy(err) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %s: %w", model.ErrStoreUnavailable, msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
