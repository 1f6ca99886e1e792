package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"dealeraudit/internal/hierarchy/models"
	"dealeraudit/pkg/domain"
	"dealeraudit/pkg/platform/sentinel"
)

// Postgres-backed tree stores. These are pure I/O; abbreviation derivation,
// value deltas and cascade ordering belong to the service layer. Child-id
// lists and exception sets are stored as uuid arrays to keep reads single
// round-trip, mirroring the document layout the service expects.

// EnsureSchema creates the tree tables when missing. Idempotent; called at
// startup so dev and integration-test databases need no external migration.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			abbreviation TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_agency BOOLEAN NOT NULL DEFAULT FALSE,
			category_type TEXT NOT NULL DEFAULT '',
			blocks UUID[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			number DOUBLE PRECISION NOT NULL,
			category UUID NOT NULL,
			abbreviation TEXT NOT NULL DEFAULT '',
			value DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_agency BOOLEAN NOT NULL DEFAULT FALSE,
			areas UUID[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS areas (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			number DOUBLE PRECISION NOT NULL,
			block UUID NOT NULL,
			category UUID NOT NULL,
			abbreviation TEXT NOT NULL DEFAULT '',
			value DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_exception BOOLEAN NOT NULL DEFAULT FALSE,
			is_agency BOOLEAN NOT NULL DEFAULT FALSE,
			standards UUID[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS standards (
			id UUID PRIMARY KEY,
			description TEXT NOT NULL,
			number DOUBLE PRECISION NOT NULL,
			area UUID NOT NULL,
			block UUID NOT NULL,
			category UUID NOT NULL,
			abbreviation TEXT NOT NULL DEFAULT '',
			value DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_core BOOLEAN NOT NULL DEFAULT FALSE,
			is_exception BOOLEAN NOT NULL DEFAULT FALSE,
			comment TEXT NOT NULL DEFAULT '',
			criterions UUID[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS criterions (
			id UUID PRIMARY KEY,
			description TEXT NOT NULL,
			number DOUBLE PRECISION NOT NULL,
			value DOUBLE PRECISION NOT NULL DEFAULT 0,
			standard UUID NOT NULL,
			area UUID NOT NULL,
			block UUID NOT NULL,
			category UUID NOT NULL,
			abbreviation TEXT NOT NULL DEFAULT '',
			installation_types UUID[] NOT NULL DEFAULT '{}',
			audit_responsable UUID,
			criterion_type UUID,
			is_exception BOOLEAN NOT NULL DEFAULT FALSE,
			exceptions UUID[] NOT NULL DEFAULT '{}',
			is_hme_audit BOOLEAN NOT NULL DEFAULT FALSE,
			is_img_audit BOOLEAN NOT NULL DEFAULT FALSE,
			is_electric_audit BOOLEAN NOT NULL DEFAULT FALSE,
			photo BOOLEAN NOT NULL DEFAULT FALSE,
			sale_criterion BOOLEAN NOT NULL DEFAULT FALSE,
			hme_code TEXT NOT NULL DEFAULT '',
			hmes_comment TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			image_comment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_category ON blocks (category)`,
		`CREATE INDEX IF NOT EXISTS idx_areas_block ON areas (block)`,
		`CREATE INDEX IF NOT EXISTS idx_areas_category ON areas (category)`,
		`CREATE INDEX IF NOT EXISTS idx_standards_area ON standards (area)`,
		`CREATE INDEX IF NOT EXISTS idx_standards_block ON standards (block)`,
		`CREATE INDEX IF NOT EXISTS idx_standards_category ON standards (category)`,
		`CREATE INDEX IF NOT EXISTS idx_criterions_standard ON criterions (standard)`,
		`CREATE INDEX IF NOT EXISTS idx_criterions_area ON criterions (area)`,
		`CREATE INDEX IF NOT EXISTS idx_criterions_block ON criterions (block)`,
		`CREATE INDEX IF NOT EXISTS idx_criterions_category ON criterions (category)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure hierarchy schema: %w", err)
		}
	}
	return nil
}

// idStrings converts typed uuid ids for pq.Array.
func idStrings[T interface{ String() string }](ids []T) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// parseIDs converts pq.Array output back into typed ids.
func parseIDs[T ~[16]byte](raw []string) ([]T, error) {
	out := make([]T, len(raw))
	for i, s := range raw {
		u, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("corrupt id %q in array column: %w", s, err)
		}
		out[i] = T(u)
	}
	return out, nil
}

func nullableID(id interface{ String() string }, isNil bool) any {
	if isNil {
		return nil
	}
	return id.String()
}

// PostgresCategoryStore persists categories in PostgreSQL.
type PostgresCategoryStore struct {
	db *sql.DB
}

func NewPostgresCategoryStore(db *sql.DB) *PostgresCategoryStore {
	return &PostgresCategoryStore{db: db}
}

const categoryColumns = `id, name, abbreviation, value, is_agency, category_type, blocks, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	var (
		c      models.Category
		blocks pq.StringArray
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Abbreviation, &c.Value, &c.IsAgency, &c.CategoryType, &blocks, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	ids, err := parseIDs[domain.BlockID](blocks)
	if err != nil {
		return nil, err
	}
	c.Blocks = ids
	return &c, nil
}

func (s *PostgresCategoryStore) Create(ctx context.Context, category *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		category.ID.String(), category.Name, category.Abbreviation, category.Value,
		category.IsAgency, category.CategoryType, pq.Array(idStrings(category.Blocks)),
		category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *PostgresCategoryStore) FindByID(ctx context.Context, id domain.CategoryID) (*models.Category, error) {
	category, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

func (s *PostgresCategoryStore) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, category)
	}
	return out, rows.Err()
}

func (s *PostgresCategoryStore) Save(ctx context.Context, category *models.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = $2, abbreviation = $3, value = $4, is_agency = $5,
			category_type = $6, blocks = $7, updated_at = $8
		WHERE id = $1`,
		category.ID.String(), category.Name, category.Abbreviation, category.Value,
		category.IsAgency, category.CategoryType, pq.Array(idStrings(category.Blocks)),
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresCategoryStore) Delete(ctx context.Context, id domain.CategoryID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresCategoryStore) FindByName(ctx context.Context, name string, isAgency bool) (*models.Category, error) {
	category, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE lower(name) = lower($1) AND is_agency = $2`,
		name, isAgency))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return category, nil
}

func (s *PostgresCategoryStore) FindByAbbreviation(ctx context.Context, abbreviation string, isAgency bool) (*models.Category, error) {
	category, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE lower(abbreviation) = lower($1) AND is_agency = $2`,
		abbreviation, isAgency))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find category by abbreviation: %w", err)
	}
	return category, nil
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

// PostgresBlockStore persists blocks in PostgreSQL.
type PostgresBlockStore struct {
	db *sql.DB
}

func NewPostgresBlockStore(db *sql.DB) *PostgresBlockStore {
	return &PostgresBlockStore{db: db}
}

const blockColumns = `id, name, number, category, abbreviation, value, is_agency, areas, created_at, updated_at`

func scanBlock(row interface{ Scan(...any) error }) (*models.Block, error) {
	var (
		b     models.Block
		areas pq.StringArray
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Number, &b.Category, &b.Abbreviation, &b.Value, &b.IsAgency, &areas, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	ids, err := parseIDs[domain.AreaID](areas)
	if err != nil {
		return nil, err
	}
	b.Areas = ids
	return &b, nil
}

func (s *PostgresBlockStore) Create(ctx context.Context, block *models.Block) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blocks (`+blockColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		block.ID.String(), block.Name, block.Number, block.Category.String(),
		block.Abbreviation, block.Value, block.IsAgency, pq.Array(idStrings(block.Areas)),
		block.CreatedAt, block.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create block: %w", err)
	}
	return nil
}

func (s *PostgresBlockStore) FindByID(ctx context.Context, id domain.BlockID) (*models.Block, error) {
	block, err := scanBlock(s.db.QueryRowContext(ctx,
		`SELECT `+blockColumns+` FROM blocks WHERE id = $1`, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find block: %w", err)
	}
	return block, nil
}

func (s *PostgresBlockStore) List(ctx context.Context) ([]*models.Block, error) {
	return s.queryBlocks(ctx, `SELECT `+blockColumns+` FROM blocks ORDER BY created_at, id`)
}

func (s *PostgresBlockStore) queryBlocks(ctx context.Context, query string, args ...any) ([]*models.Block, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer rows.Close()

	var out []*models.Block
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		out = append(out, block)
	}
	return out, rows.Err()
}

func (s *PostgresBlockStore) Save(ctx context.Context, block *models.Block) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE blocks SET
			name = $2, number = $3, category = $4, abbreviation = $5,
			value = $6, is_agency = $7, areas = $8, updated_at = $9
		WHERE id = $1`,
		block.ID.String(), block.Name, block.Number, block.Category.String(),
		block.Abbreviation, block.Value, block.IsAgency, pq.Array(idStrings(block.Areas)),
		block.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save block: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresBlockStore) Delete(ctx context.Context, id domain.BlockID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresBlockStore) FindByName(ctx context.Context, name string) (*models.Block, error) {
	block, err := scanBlock(s.db.QueryRowContext(ctx,
		`SELECT `+blockColumns+` FROM blocks WHERE lower(name) = lower($1)`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find block by name: %w", err)
	}
	return block, nil
}

func (s *PostgresBlockStore) ListByCategory(ctx context.Context, categoryID domain.CategoryID) ([]*models.Block, error) {
	return s.queryBlocks(ctx,
		`SELECT `+blockColumns+` FROM blocks WHERE category = $1 ORDER BY created_at, id`,
		categoryID.String())
}

func (s *PostgresBlockStore) DeleteByCategory(ctx context.Context, categoryID domain.CategoryID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blocks WHERE category = $1`, categoryID.String()); err != nil {
		return fmt.Errorf("delete blocks by category: %w", err)
	}
	return nil
}

// PostgresAreaStore persists areas in PostgreSQL.
type PostgresAreaStore struct {
	db *sql.DB
}

func NewPostgresAreaStore(db *sql.DB) *PostgresAreaStore {
	return &PostgresAreaStore{db: db}
}

const areaColumns = `id, name, number, block, category, abbreviation, value, is_exception, is_agency, standards, created_at, updated_at`

func scanArea(row interface{ Scan(...any) error }) (*models.Area, error) {
	var (
		a         models.Area
		standards pq.StringArray
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Number, &a.Block, &a.Category, &a.Abbreviation, &a.Value, &a.IsException, &a.IsAgency, &standards, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	ids, err := parseIDs[domain.StandardID](standards)
	if err != nil {
		return nil, err
	}
	a.Standards = ids
	return &a, nil
}

func (s *PostgresAreaStore) Create(ctx context.Context, area *models.Area) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO areas (`+areaColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		area.ID.String(), area.Name, area.Number, area.Block.String(), area.Category.String(),
		area.Abbreviation, area.Value, area.IsException, area.IsAgency,
		pq.Array(idStrings(area.Standards)), area.CreatedAt, area.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create area: %w", err)
	}
	return nil
}

func (s *PostgresAreaStore) FindByID(ctx context.Context, id domain.AreaID) (*models.Area, error) {
	area, err := scanArea(s.db.QueryRowContext(ctx,
		`SELECT `+areaColumns+` FROM areas WHERE id = $1`, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find area: %w", err)
	}
	return area, nil
}

func (s *PostgresAreaStore) List(ctx context.Context) ([]*models.Area, error) {
	return s.queryAreas(ctx, `SELECT `+areaColumns+` FROM areas ORDER BY created_at, id`)
}

func (s *PostgresAreaStore) queryAreas(ctx context.Context, query string, args ...any) ([]*models.Area, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query areas: %w", err)
	}
	defer rows.Close()

	var out []*models.Area
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		out = append(out, area)
	}
	return out, rows.Err()
}

func (s *PostgresAreaStore) Save(ctx context.Context, area *models.Area) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE areas SET
			name = $2, number = $3, block = $4, category = $5, abbreviation = $6,
			value = $7, is_exception = $8, is_agency = $9, standards = $10, updated_at = $11
		WHERE id = $1`,
		area.ID.String(), area.Name, area.Number, area.Block.String(), area.Category.String(),
		area.Abbreviation, area.Value, area.IsException, area.IsAgency,
		pq.Array(idStrings(area.Standards)), area.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save area: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresAreaStore) Delete(ctx context.Context, id domain.AreaID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM areas WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresAreaStore) FindByName(ctx context.Context, name string) (*models.Area, error) {
	area, err := scanArea(s.db.QueryRowContext(ctx,
		`SELECT `+areaColumns+` FROM areas WHERE lower(name) = lower($1)`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find area by name: %w", err)
	}
	return area, nil
}

func (s *PostgresAreaStore) ListByBlock(ctx context.Context, blockID domain.BlockID) ([]*models.Area, error) {
	return s.queryAreas(ctx,
		`SELECT `+areaColumns+` FROM areas WHERE block = $1 ORDER BY created_at, id`,
		blockID.String())
}

func (s *PostgresAreaStore) DeleteByBlock(ctx context.Context, blockID domain.BlockID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM areas WHERE block = $1`, blockID.String()); err != nil {
		return fmt.Errorf("delete areas by block: %w", err)
	}
	return nil
}

func (s *PostgresAreaStore) DeleteByCategory(ctx context.Context, categoryID domain.CategoryID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM areas WHERE category = $1`, categoryID.String()); err != nil {
		return fmt.Errorf("delete areas by category: %w", err)
	}
	return nil
}

// PostgresStandardStore persists standards in PostgreSQL.
type PostgresStandardStore struct {
	db *sql.DB
}

func NewPostgresStandardStore(db *sql.DB) *PostgresStandardStore {
	return &PostgresStandardStore{db: db}
}

const standardColumns = `id, description, number, area, block, category, abbreviation, value, is_core, is_exception, comment, criterions, created_at, updated_at`

func scanStandard(row interface{ Scan(...any) error }) (*models.Standard, error) {
	var (
		st         models.Standard
		criterions pq.StringArray
	)
	if err := row.Scan(&st.ID, &st.Description, &st.Number, &st.Area, &st.Block, &st.Category, &st.Abbreviation, &st.Value, &st.IsCore, &st.IsException, &st.Comment, &criterions, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	ids, err := parseIDs[domain.CriterionID](criterions)
	if err != nil {
		return nil, err
	}
	st.Criterions = ids
	return &st, nil
}

func (s *PostgresStandardStore) Create(ctx context.Context, standard *models.Standard) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO standards (`+standardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		standard.ID.String(), standard.Description, standard.Number,
		standard.Area.String(), standard.Block.String(), standard.Category.String(),
		standard.Abbreviation, standard.Value, standard.IsCore, standard.IsException,
		standard.Comment, pq.Array(idStrings(standard.Criterions)),
		standard.CreatedAt, standard.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create standard: %w", err)
	}
	return nil
}

func (s *PostgresStandardStore) FindByID(ctx context.Context, id domain.StandardID) (*models.Standard, error) {
	standard, err := scanStandard(s.db.QueryRowContext(ctx,
		`SELECT `+standardColumns+` FROM standards WHERE id = $1`, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find standard: %w", err)
	}
	return standard, nil
}

func (s *PostgresStandardStore) List(ctx context.Context) ([]*models.Standard, error) {
	return s.queryStandards(ctx, `SELECT `+standardColumns+` FROM standards ORDER BY created_at, id`)
}

func (s *PostgresStandardStore) queryStandards(ctx context.Context, query string, args ...any) ([]*models.Standard, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query standards: %w", err)
	}
	defer rows.Close()

	var out []*models.Standard
	for rows.Next() {
		standard, err := scanStandard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan standard: %w", err)
		}
		out = append(out, standard)
	}
	return out, rows.Err()
}

func (s *PostgresStandardStore) Save(ctx context.Context, standard *models.Standard) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE standards SET
			description = $2, number = $3, area = $4, block = $5, category = $6,
			abbreviation = $7, value = $8, is_core = $9, is_exception = $10,
			comment = $11, criterions = $12, updated_at = $13
		WHERE id = $1`,
		standard.ID.String(), standard.Description, standard.Number,
		standard.Area.String(), standard.Block.String(), standard.Category.String(),
		standard.Abbreviation, standard.Value, standard.IsCore, standard.IsException,
		standard.Comment, pq.Array(idStrings(standard.Criterions)), standard.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save standard: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStandardStore) Delete(ctx context.Context, id domain.StandardID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM standards WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete standard: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStandardStore) FindByDescription(ctx context.Context, description string) (*models.Standard, error) {
	standard, err := scanStandard(s.db.QueryRowContext(ctx,
		`SELECT `+standardColumns+` FROM standards WHERE lower(description) = lower($1)`, description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find standard by description: %w", err)
	}
	return standard, nil
}

func (s *PostgresStandardStore) ListByArea(ctx context.Context, areaID domain.AreaID) ([]*models.Standard, error) {
	return s.queryStandards(ctx,
		`SELECT `+standardColumns+` FROM standards WHERE area = $1 ORDER BY created_at, id`,
		areaID.String())
}

func (s *PostgresStandardStore) DeleteByArea(ctx context.Context, areaID domain.AreaID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM standards WHERE area = $1`, areaID.String()); err != nil {
		return fmt.Errorf("delete standards by area: %w", err)
	}
	return nil
}

func (s *PostgresStandardStore) DeleteByBlock(ctx context.Context, blockID domain.BlockID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM standards WHERE block = $1`, blockID.String()); err != nil {
		return fmt.Errorf("delete standards by block: %w", err)
	}
	return nil
}

func (s *PostgresStandardStore) DeleteByCategory(ctx context.Context, categoryID domain.CategoryID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM standards WHERE category = $1`, categoryID.String()); err != nil {
		return fmt.Errorf("delete standards by category: %w", err)
	}
	return nil
}

// PostgresCriterionStore persists criterions in PostgreSQL.
type PostgresCriterionStore struct {
	db *sql.DB
}

func NewPostgresCriterionStore(db *sql.DB) *PostgresCriterionStore {
	return &PostgresCriterionStore{db: db}
}

const criterionColumns = `id, description, number, value, standard, area, block, category, abbreviation,
	installation_types, audit_responsable, criterion_type, is_exception, exceptions,
	is_hme_audit, is_img_audit, is_electric_audit, photo, sale_criterion,
	hme_code, hmes_comment, image_url, image_comment, created_at, updated_at`

func scanCriterion(row interface{ Scan(...any) error }) (*models.Criterion, error) {
	var (
		c                             models.Criterion
		installationTypes, exceptions pq.StringArray
	)
	err := row.Scan(&c.ID, &c.Description, &c.Number, &c.Value, &c.Standard, &c.Area, &c.Block, &c.Category,
		&c.Abbreviation, &installationTypes, &c.AuditResponsable, &c.CriterionType, &c.IsException, &exceptions,
		&c.IsHmeAudit, &c.IsImgAudit, &c.IsElectricAudit, &c.Photo, &c.SaleCriterion,
		&c.HmeCode, &c.HmesComment, &c.ImageURL, &c.ImageComment, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	types, err := parseIDs[domain.InstallationTypeID](installationTypes)
	if err != nil {
		return nil, err
	}
	c.InstallationTypes = types
	excepted, err := parseIDs[domain.InstallationID](exceptions)
	if err != nil {
		return nil, err
	}
	c.Exceptions = excepted
	return &c, nil
}

func (s *PostgresCriterionStore) Create(ctx context.Context, criterion *models.Criterion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO criterions (`+criterionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`,
		criterion.ID.String(), criterion.Description, criterion.Number, criterion.Value,
		criterion.Standard.String(), criterion.Area.String(), criterion.Block.String(), criterion.Category.String(),
		criterion.Abbreviation, pq.Array(idStrings(criterion.InstallationTypes)),
		nullableID(criterion.AuditResponsable, criterion.AuditResponsable.IsNil()),
		nullableID(criterion.CriterionType, criterion.CriterionType.IsNil()),
		criterion.IsException, pq.Array(idStrings(criterion.Exceptions)),
		criterion.IsHmeAudit, criterion.IsImgAudit, criterion.IsElectricAudit,
		criterion.Photo, criterion.SaleCriterion,
		criterion.HmeCode, criterion.HmesComment, criterion.ImageURL, criterion.ImageComment,
		criterion.CreatedAt, criterion.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create criterion: %w", err)
	}
	return nil
}

func (s *PostgresCriterionStore) FindByID(ctx context.Context, id domain.CriterionID) (*models.Criterion, error) {
	criterion, err := scanCriterion(s.db.QueryRowContext(ctx,
		`SELECT `+criterionColumns+` FROM criterions WHERE id = $1`, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find criterion: %w", err)
	}
	return criterion, nil
}

// FindByIDs preserves the order of the requested ids and silently skips
// missing ones; the resolver depends on both behaviors.
func (s *PostgresCriterionStore) FindByIDs(ctx context.Context, ids []domain.CriterionID) ([]*models.Criterion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.queryCriterions(ctx,
		`SELECT `+criterionColumns+` FROM criterions WHERE id = ANY($1)`,
		pq.Array(idStrings(ids)))
	if err != nil {
		return nil, err
	}
	byID := make(map[domain.CriterionID]*models.Criterion, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]*models.Criterion, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *PostgresCriterionStore) List(ctx context.Context) ([]*models.Criterion, error) {
	return s.queryCriterions(ctx, `SELECT `+criterionColumns+` FROM criterions ORDER BY created_at, id`)
}

func (s *PostgresCriterionStore) queryCriterions(ctx context.Context, query string, args ...any) ([]*models.Criterion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query criterions: %w", err)
	}
	defer rows.Close()

	var out []*models.Criterion
	for rows.Next() {
		criterion, err := scanCriterion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan criterion: %w", err)
		}
		out = append(out, criterion)
	}
	return out, rows.Err()
}

func (s *PostgresCriterionStore) Save(ctx context.Context, criterion *models.Criterion) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE criterions SET
			description = $2, number = $3, value = $4, standard = $5, area = $6,
			block = $7, category = $8, abbreviation = $9, installation_types = $10,
			audit_responsable = $11, criterion_type = $12, is_exception = $13,
			exceptions = $14, is_hme_audit = $15, is_img_audit = $16,
			is_electric_audit = $17, photo = $18, sale_criterion = $19,
			hme_code = $20, hmes_comment = $21, image_url = $22, image_comment = $23,
			updated_at = $24
		WHERE id = $1`,
		criterion.ID.String(), criterion.Description, criterion.Number, criterion.Value,
		criterion.Standard.String(), criterion.Area.String(), criterion.Block.String(), criterion.Category.String(),
		criterion.Abbreviation, pq.Array(idStrings(criterion.InstallationTypes)),
		nullableID(criterion.AuditResponsable, criterion.AuditResponsable.IsNil()),
		nullableID(criterion.CriterionType, criterion.CriterionType.IsNil()),
		criterion.IsException, pq.Array(idStrings(criterion.Exceptions)),
		criterion.IsHmeAudit, criterion.IsImgAudit, criterion.IsElectricAudit,
		criterion.Photo, criterion.SaleCriterion,
		criterion.HmeCode, criterion.HmesComment, criterion.ImageURL, criterion.ImageComment,
		criterion.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save criterion: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresCriterionStore) Delete(ctx context.Context, id domain.CriterionID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM criterions WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete criterion: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresCriterionStore) ListByStandard(ctx context.Context, standardID domain.StandardID) ([]*models.Criterion, error) {
	return s.queryCriterions(ctx,
		`SELECT `+criterionColumns+` FROM criterions WHERE standard = $1 ORDER BY created_at, id`,
		standardID.String())
}

func (s *PostgresCriterionStore) DeleteByStandard(ctx context.Context, standardID domain.StandardID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM criterions WHERE standard = $1`, standardID.String()); err != nil {
		return fmt.Errorf("delete criterions by standard: %w", err)
	}
	return nil
}

func (s *PostgresCriterionStore) DeleteByArea(ctx context.Context, areaID domain.AreaID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM criterions WHERE area = $1`, areaID.String()); err != nil {
		return fmt.Errorf("delete criterions by area: %w", err)
	}
	return nil
}

func (s *PostgresCriterionStore) DeleteByBlock(ctx context.Context, blockID domain.BlockID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM criterions WHERE block = $1`, blockID.String()); err != nil {
		return fmt.Errorf("delete criterions by block: %w", err)
	}
	return nil
}

func (s *PostgresCriterionStore) DeleteByCategory(ctx context.Context, categoryID domain.CategoryID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM criterions WHERE category = $1`, categoryID.String()); err != nil {
		return fmt.Errorf("delete criterions by category: %w", err)
	}
	return nil
}

// NewPostgresStores bundles the five postgres stores for wiring.
func NewPostgresStores(db *sql.DB) Stores {
	return Stores{
		Categories: NewPostgresCategoryStore(db),
		Blocks:     NewPostgresBlockStore(db),
		Areas:      NewPostgresAreaStore(db),
		Standards:  NewPostgresStandardStore(db),
		Criterions: NewPostgresCriterionStore(db),
	}
}
