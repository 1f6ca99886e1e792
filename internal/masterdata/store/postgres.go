package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dealeraudit/internal/masterdata/models"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/platform/sentinel"
)

// EnsureSchema creates the master-data tables when missing. Idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS dealerships (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			post_sale_daily_income DOUBLE PRECISION NOT NULL DEFAULT 0,
			referential_sales DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS installations (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			dealership UUID NOT NULL,
			installation_type UUID NOT NULL,
			sales_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
			exhibition_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS installation_types (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			code TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS criterion_types (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS responsables (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_installations_dealership ON installations (dealership)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure masterdata schema: %w", err)
		}
	}
	return nil
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

func notFoundOr(err error, verb string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	return fmt.Errorf("%s: %w", verb, err)
}

// PostgresDealershipStore persists dealerships in PostgreSQL.
type PostgresDealershipStore struct {
	db *sql.DB
}

func NewPostgresDealershipStore(db *sql.DB) *PostgresDealershipStore {
	return &PostgresDealershipStore{db: db}
}

const dealershipColumns = `id, name, post_sale_daily_income, referential_sales, created_at, updated_at`

func scanDealership(row interface{ Scan(...any) error }) (*models.Dealership, error) {
	var d models.Dealership
	if err := row.Scan(&d.ID, &d.Name, &d.PostSaleDailyIncome, &d.ReferentialSales, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PostgresDealershipStore) Create(ctx context.Context, d *models.Dealership) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dealerships (`+dealershipColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.Name, d.PostSaleDailyIncome, d.ReferentialSales, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create dealership: %w", err)
	}
	return nil
}

func (s *PostgresDealershipStore) FindByID(ctx context.Context, id domain.DealershipID) (*models.Dealership, error) {
	d, err := scanDealership(s.db.QueryRowContext(ctx,
		`SELECT `+dealershipColumns+` FROM dealerships WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "find dealership")
	}
	return d, nil
}

func (s *PostgresDealershipStore) FindByName(ctx context.Context, name string) (*models.Dealership, error) {
	d, err := scanDealership(s.db.QueryRowContext(ctx,
		`SELECT `+dealershipColumns+` FROM dealerships WHERE lower(name) = lower($1)`, name))
	if err != nil {
		return nil, notFoundOr(err, "find dealership by name")
	}
	return d, nil
}

func (s *PostgresDealershipStore) List(ctx context.Context) ([]*models.Dealership, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+dealershipColumns+` FROM dealerships ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list dealerships: %w", err)
	}
	defer rows.Close()

	var out []*models.Dealership
	for rows.Next() {
		d, err := scanDealership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dealership: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresDealershipStore) Save(ctx context.Context, d *models.Dealership) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE dealerships SET
			name = $2, post_sale_daily_income = $3, referential_sales = $4, updated_at = $5
		WHERE id = $1`,
		d.ID, d.Name, d.PostSaleDailyIncome, d.ReferentialSales, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save dealership: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresDealershipStore) Delete(ctx context.Context, id domain.DealershipID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dealerships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dealership: %w", err)
	}
	return requireAffected(res)
}

// PostgresInstallationStore persists installations in PostgreSQL.
type PostgresInstallationStore struct {
	db *sql.DB
}

func NewPostgresInstallationStore(db *sql.DB) *PostgresInstallationStore {
	return &PostgresInstallationStore{db: db}
}

const installationColumns = `id, name, dealership, installation_type, sales_weight, exhibition_count, created_at, updated_at`

func scanInstallation(row interface{ Scan(...any) error }) (*models.Installation, error) {
	var i models.Installation
	if err := row.Scan(&i.ID, &i.Name, &i.Dealership, &i.InstallationType, &i.SalesWeight, &i.ExhibitionCount, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *PostgresInstallationStore) Create(ctx context.Context, i *models.Installation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO installations (`+installationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		i.ID, i.Name, i.Dealership, i.InstallationType, i.SalesWeight, i.ExhibitionCount, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create installation: %w", err)
	}
	return nil
}

func (s *PostgresInstallationStore) FindByID(ctx context.Context, id domain.InstallationID) (*models.Installation, error) {
	i, err := scanInstallation(s.db.QueryRowContext(ctx,
		`SELECT `+installationColumns+` FROM installations WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "find installation")
	}
	return i, nil
}

func (s *PostgresInstallationStore) FindByName(ctx context.Context, name string) (*models.Installation, error) {
	i, err := scanInstallation(s.db.QueryRowContext(ctx,
		`SELECT `+installationColumns+` FROM installations WHERE lower(name) = lower($1)`, name))
	if err != nil {
		return nil, notFoundOr(err, "find installation by name")
	}
	return i, nil
}

func (s *PostgresInstallationStore) List(ctx context.Context) ([]*models.Installation, error) {
	return s.query(ctx, `SELECT `+installationColumns+` FROM installations ORDER BY created_at, id`)
}

func (s *PostgresInstallationStore) ListByDealership(ctx context.Context, dealershipID domain.DealershipID) ([]*models.Installation, error) {
	return s.query(ctx,
		`SELECT `+installationColumns+` FROM installations WHERE dealership = $1 ORDER BY created_at, id`,
		dealershipID)
}

func (s *PostgresInstallationStore) query(ctx context.Context, query string, args ...any) ([]*models.Installation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query installations: %w", err)
	}
	defer rows.Close()

	var out []*models.Installation
	for rows.Next() {
		i, err := scanInstallation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan installation: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *PostgresInstallationStore) Save(ctx context.Context, i *models.Installation) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE installations SET
			name = $2, dealership = $3, installation_type = $4,
			sales_weight = $5, exhibition_count = $6, updated_at = $7
		WHERE id = $1`,
		i.ID, i.Name, i.Dealership, i.InstallationType, i.SalesWeight, i.ExhibitionCount, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save installation: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresInstallationStore) Delete(ctx context.Context, id domain.InstallationID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM installations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete installation: %w", err)
	}
	return requireAffected(res)
}

// PostgresInstallationTypeStore persists installation types in PostgreSQL.
type PostgresInstallationTypeStore struct {
	db *sql.DB
}

func NewPostgresInstallationTypeStore(db *sql.DB) *PostgresInstallationTypeStore {
	return &PostgresInstallationTypeStore{db: db}
}

const installationTypeColumns = `id, name, code, created_at, updated_at`

func scanInstallationType(row interface{ Scan(...any) error }) (*models.InstallationType, error) {
	var t models.InstallationType
	if err := row.Scan(&t.ID, &t.Name, &t.Code, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresInstallationTypeStore) Create(ctx context.Context, t *models.InstallationType) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO installation_types (`+installationTypeColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Name, t.Code, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create installation type: %w", err)
	}
	return nil
}

func (s *PostgresInstallationTypeStore) FindByID(ctx context.Context, id domain.InstallationTypeID) (*models.InstallationType, error) {
	t, err := scanInstallationType(s.db.QueryRowContext(ctx,
		`SELECT `+installationTypeColumns+` FROM installation_types WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "find installation type")
	}
	return t, nil
}

func (s *PostgresInstallationTypeStore) FindByName(ctx context.Context, name string) (*models.InstallationType, error) {
	t, err := scanInstallationType(s.db.QueryRowContext(ctx,
		`SELECT `+installationTypeColumns+` FROM installation_types WHERE lower(name) = lower($1)`, name))
	if err != nil {
		return nil, notFoundOr(err, "find installation type by name")
	}
	return t, nil
}

func (s *PostgresInstallationTypeStore) List(ctx context.Context) ([]*models.InstallationType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+installationTypeColumns+` FROM installation_types ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list installation types: %w", err)
	}
	defer rows.Close()

	var out []*models.InstallationType
	for rows.Next() {
		t, err := scanInstallationType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan installation type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresInstallationTypeStore) Save(ctx context.Context, t *models.InstallationType) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE installation_types SET name = $2, code = $3, updated_at = $4
		WHERE id = $1`,
		t.ID, t.Name, t.Code, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save installation type: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresInstallationTypeStore) Delete(ctx context.Context, id domain.InstallationTypeID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM installation_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete installation type: %w", err)
	}
	return requireAffected(res)
}

// PostgresCriterionTypeStore persists criterion types in PostgreSQL.
type PostgresCriterionTypeStore struct {
	db *sql.DB
}

func NewPostgresCriterionTypeStore(db *sql.DB) *PostgresCriterionTypeStore {
	return &PostgresCriterionTypeStore{db: db}
}

const criterionTypeColumns = `id, name, created_at, updated_at`

func scanCriterionType(row interface{ Scan(...any) error }) (*models.CriterionType, error) {
	var t models.CriterionType
	if err := row.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresCriterionTypeStore) Create(ctx context.Context, t *models.CriterionType) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO criterion_types (`+criterionTypeColumns+`)
		VALUES ($1, $2, $3, $4)`,
		t.ID, t.Name, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create criterion type: %w", err)
	}
	return nil
}

func (s *PostgresCriterionTypeStore) FindByID(ctx context.Context, id domain.CriterionTypeID) (*models.CriterionType, error) {
	t, err := scanCriterionType(s.db.QueryRowContext(ctx,
		`SELECT `+criterionTypeColumns+` FROM criterion_types WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "find criterion type")
	}
	return t, nil
}

func (s *PostgresCriterionTypeStore) FindByName(ctx context.Context, name string) (*models.CriterionType, error) {
	t, err := scanCriterionType(s.db.QueryRowContext(ctx,
		`SELECT `+criterionTypeColumns+` FROM criterion_types WHERE lower(name) = lower($1)`, name))
	if err != nil {
		return nil, notFoundOr(err, "find criterion type by name")
	}
	return t, nil
}

func (s *PostgresCriterionTypeStore) List(ctx context.Context) ([]*models.CriterionType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+criterionTypeColumns+` FROM criterion_types ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list criterion types: %w", err)
	}
	defer rows.Close()

	var out []*models.CriterionType
	for rows.Next() {
		t, err := scanCriterionType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan criterion type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresCriterionTypeStore) Save(ctx context.Context, t *models.CriterionType) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE criterion_types SET name = $2, updated_at = $3 WHERE id = $1`,
		t.ID, t.Name, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save criterion type: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresCriterionTypeStore) Delete(ctx context.Context, id domain.CriterionTypeID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM criterion_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete criterion type: %w", err)
	}
	return requireAffected(res)
}

// PostgresResponsableStore persists responsables in PostgreSQL.
type PostgresResponsableStore struct {
	db *sql.DB
}

func NewPostgresResponsableStore(db *sql.DB) *PostgresResponsableStore {
	return &PostgresResponsableStore{db: db}
}

const responsableColumns = `id, name, email, created_at, updated_at`

func scanResponsable(row interface{ Scan(...any) error }) (*models.Responsable, error) {
	var r models.Responsable
	if err := row.Scan(&r.ID, &r.Name, &r.Email, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresResponsableStore) Create(ctx context.Context, r *models.Responsable) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO responsables (`+responsableColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		r.ID, r.Name, r.Email, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create responsable: %w", err)
	}
	return nil
}

func (s *PostgresResponsableStore) FindByID(ctx context.Context, id domain.ResponsableID) (*models.Responsable, error) {
	r, err := scanResponsable(s.db.QueryRowContext(ctx,
		`SELECT `+responsableColumns+` FROM responsables WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "find responsable")
	}
	return r, nil
}

func (s *PostgresResponsableStore) FindByName(ctx context.Context, name string) (*models.Responsable, error) {
	r, err := scanResponsable(s.db.QueryRowContext(ctx,
		`SELECT `+responsableColumns+` FROM responsables WHERE lower(name) = lower($1)`, name))
	if err != nil {
		return nil, notFoundOr(err, "find responsable by name")
	}
	return r, nil
}

func (s *PostgresResponsableStore) List(ctx context.Context) ([]*models.Responsable, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+responsableColumns+` FROM responsables ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list responsables: %w", err)
	}
	defer rows.Close()

	var out []*models.Responsable
	for rows.Next() {
		r, err := scanResponsable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan responsable: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresResponsableStore) Save(ctx context.Context, r *models.Responsable) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE responsables SET name = $2, email = $3, updated_at = $4 WHERE id = $1`,
		r.ID, r.Name, r.Email, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save responsable: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresResponsableStore) Delete(ctx context.Context, id domain.ResponsableID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM responsables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete responsable: %w", err)
	}
	return requireAffected(res)
}

// NewPostgresStores bundles the five postgres stores for wiring.
func NewPostgresStores(db *sql.DB) Stores {
	return Stores{
		Dealerships:       NewPostgresDealershipStore(db),
		Installations:     NewPostgresInstallationStore(db),
		InstallationTypes: NewPostgresInstallationTypeStore(db),
		CriterionTypes:    NewPostgresCriterionTypeStore(db),
		Responsables:      NewPostgresResponsableStore(db),
	}
}
