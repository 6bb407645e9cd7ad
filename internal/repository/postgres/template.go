package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/fingerprint-server/internal/model"
)

const uniqueViolation = "23505"

var _ model.TemplateStore = (*TemplateRepository)(nil)

// querier is the part of pgxpool.Pool used by TemplateRepository.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type TemplateRepository struct {
	db querier
}

func NewTemplateRepository(db *Connection) *TemplateRepository {
	return &TemplateRepository{
		db: db,
	}
}

func (r *TemplateRepository) Insert(ctx context.Context, enrolled model.EnrolledTemplate) error {
	query := `INSERT INTO fingerprints (id, identity, template, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, enrolled.ID, enrolled.Identity, []byte(enrolled.Template), enrolled.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: identity %q", model.ErrAlreadyExists, enrolled.Identity)
		}
		return storeError("failed to insert template", err)
	}

	return nil
}

func (r *TemplateRepository) FindByIdentity(ctx context.Context, identity string) (model.EnrolledTemplate, error) {
	query := `SELECT id, identity, template, created_at
			  FROM fingerprints WHERE identity = $1`

	enrolled, err := scanTemplate(r.db.QueryRow(ctx, query, identity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EnrolledTemplate{}, model.ErrNotFound
		}
		return model.EnrolledTemplate{}, storeError("failed to get template by identity", err)
	}

	return enrolled, nil
}

func (r *TemplateRepository) ListAll(ctx context.Context) ([]model.EnrolledTemplate, error) {
	query := `SELECT id, identity, template, created_at
			  FROM fingerprints ORDER BY seq`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("failed to list templates", err)
	}
	defer rows.Close()

	all := make([]model.EnrolledTemplate, 0)
	for rows.Next() {
		enrolled, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		all = append(all, enrolled)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("failed to iterate templates", err)
	}

	return all, nil
}

func scanTemplate(row pgx.Row) (model.EnrolledTemplate, error) {
	var enrolled model.EnrolledTemplate
	var template []byte
	if err := row.Scan(&enrolled.ID, &enrolled.Identity, &template, &enrolled.CreatedAt); err != nil {
		return model.EnrolledTemplate{}, err
	}
	enrolled.Template = model.Template(template)
	return enrolled, nil
}

// storeError marks errors that did not come from the server as ErrStoreUnavailable.
func storeError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%w: %s: %w", model.ErrStoreUnavailable, msg, err)
}
