package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"dealeraudit/internal/audits/models"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/platform/sentinel"
)

// EnsureSchema creates the audits table when missing. Idempotent. The
// ordered criteria list is kept as jsonb: entries are only ever read and
// written through the owning audit, never queried individually.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS audits (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			start_date TEXT NOT NULL DEFAULT '',
			end_date TEXT NOT NULL DEFAULT '',
			installations UUID[] NOT NULL DEFAULT '{}',
			installation_exceptions UUID[] NOT NULL DEFAULT '{}',
			criterions JSONB NOT NULL DEFAULT '[]',
			audit_responsables UUID[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audits_status ON audits (status)`,
		`CREATE INDEX IF NOT EXISTS idx_audits_name ON audits (lower(name))`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure audits schema: %w", err)
		}
	}
	return nil
}

func notFoundOr(err error, verb string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	return fmt.Errorf("%s: %w", verb, err)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func idStrings[T interface{ String() string }](ids []T) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseIDs[T ~[16]byte](raw []string) ([]T, error) {
	out := make([]T, len(raw))
	for i, s := range raw {
		parsed, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse id %q: %w", s, err)
		}
		out[i] = T(parsed)
	}
	return out, nil
}

// PostgresAuditStore persists audits in PostgreSQL.
type PostgresAuditStore struct {
	db *sql.DB
}

func NewPostgresAuditStore(db *sql.DB) *PostgresAuditStore {
	return &PostgresAuditStore{db: db}
}

const auditColumns = `id, name, status, start_date, end_date, installations, installation_exceptions, criterions, audit_responsables, created_at, updated_at`

func scanAudit(row interface{ Scan(...any) error }) (*models.Audit, error) {
	var (
		a            models.Audit
		status       string
		installs     pq.StringArray
		exceptions   pq.StringArray
		responsables pq.StringArray
		criterions   []byte
	)
	if err := row.Scan(&a.ID, &a.Name, &status, &a.StartDate, &a.EndDate,
		&installs, &exceptions, &criterions, &responsables, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = models.Status(status)

	var err error
	if a.Installations, err = parseIDs[domain.InstallationID](installs); err != nil {
		return nil, err
	}
	if a.InstallationExceptions, err = parseIDs[domain.InstallationID](exceptions); err != nil {
		return nil, err
	}
	if a.AuditResponsables, err = parseIDs[domain.ResponsableID](responsables); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(criterions, &a.Criterions); err != nil {
		return nil, fmt.Errorf("decode audit criterions: %w", err)
	}
	return &a, nil
}

func auditArgs(a *models.Audit) ([]any, error) {
	criterions, err := json.Marshal(a.Criterions)
	if err != nil {
		return nil, fmt.Errorf("encode audit criterions: %w", err)
	}
	return []any{
		a.ID, a.Name, string(a.Status), a.StartDate, a.EndDate,
		pq.Array(idStrings(a.Installations)),
		pq.Array(idStrings(a.InstallationExceptions)),
		criterions,
		pq.Array(idStrings(a.AuditResponsables)),
		a.CreatedAt, a.UpdatedAt,
	}, nil
}

func (s *PostgresAuditStore) Create(ctx context.Context, audit *models.Audit) error {
	args, err := auditArgs(audit)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audits (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, args...)
	if err != nil {
		return fmt.Errorf("create audit: %w", err)
	}
	return nil
}

func (s *PostgresAuditStore) FindByID(ctx context.Context, id domain.AuditID) (*models.Audit, error) {
	audit, err := scanAudit(s.db.QueryRowContext(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "find audit")
	}
	return audit, nil
}

func (s *PostgresAuditStore) FindByName(ctx context.Context, name string) (*models.Audit, error) {
	audit, err := scanAudit(s.db.QueryRowContext(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE lower(name) = lower($1)`, name))
	if err != nil {
		return nil, notFoundOr(err, "find audit by name")
	}
	return audit, nil
}

func (s *PostgresAuditStore) List(ctx context.Context) ([]*models.Audit, error) {
	return s.query(ctx, `SELECT `+auditColumns+` FROM audits ORDER BY created_at, id`)
}

func (s *PostgresAuditStore) ListByStatus(ctx context.Context, status models.Status) ([]*models.Audit, error) {
	return s.query(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE status = $1 ORDER BY created_at, id`,
		string(status))
}

func (s *PostgresAuditStore) query(ctx context.Context, q string, args ...any) ([]*models.Audit, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	var out []*models.Audit
	for rows.Next() {
		audit, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		out = append(out, audit)
	}
	return out, rows.Err()
}

func (s *PostgresAuditStore) Save(ctx context.Context, audit *models.Audit) error {
	args, err := auditArgs(audit)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE audits SET name = $2, status = $3, start_date = $4, end_date = $5,
			installations = $6, installation_exceptions = $7, criterions = $8,
			audit_responsables = $9, created_at = $10, updated_at = $11
		WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("save audit: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresAuditStore) Delete(ctx context.Context, id domain.AuditID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete audit: %w", err)
	}
	return requireAffected(res)
}

// NewPostgresStores bundles the package's postgres stores.
func NewPostgresStores(db *sql.DB) Stores {
	return Stores{Audits: NewPostgresAuditStore(db)}
}
