package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"car-market/internal/domain"
)

// ManufacturerRepository define el contrato de persistencia para marcas.
type ManufacturerRepository interface {
	Create(ctx context.Context, m domain.Manufacturer) (domain.Manufacturer, error)
	GetByID(ctx context.Context, id int64) (domain.Manufacturer, error)
	List(ctx context.Context) ([]domain.Manufacturer, error)
	Save(ctx context.Context, m domain.Manufacturer) error
	Delete(ctx context.Context, id int64) error
}

// PgManufacturerRepository implementa ManufacturerRepository usando pgxpool.
type PgManufacturerRepository struct {
	pool *pgxpool.Pool
}

func NewPgManufacturerRepository(pool *pgxpool.Pool) *PgManufacturerRepository {
	return &PgManufacturerRepository{pool: pool}
}

func (r *PgManufacturerRepository) Create(ctx context.Context, m domain.Manufacturer) (domain.Manufacturer, error) {
	const query = `
		INSERT INTO manufacturers (make, make_image, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query, m.Make, nullable(m.MakeImage), m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return domain.Manufacturer{}, err
	}
	m.UpdatedAt = m.CreatedAt
	return m, nil
}

func (r *PgManufacturerRepository) GetByID(ctx context.Context, id int64) (domain.Manufacturer, error) {
	const query = `
		SELECT id, make, make_image, created_at, updated_at
		FROM manufacturers
		WHERE id = $1
	`
	return scanManufacturer(r.pool.QueryRow(ctx, query, id))
}

func (r *PgManufacturerRepository) List(ctx context.Context) ([]domain.Manufacturer, error) {
	const query = `
		SELECT id, make, make_image, created_at, updated_at
		FROM manufacturers
		ORDER BY make
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var makes []domain.Manufacturer
	for rows.Next() {
		m, err := scanManufacturer(rows)
		if err != nil {
			return nil, err
		}
		makes = append(makes, m)
	}
	return makes, rows.Err()
}

func (r *PgManufacturerRepository) Save(ctx context.Context, m domain.Manufacturer) error {
	const query = `
		UPDATE manufacturers
		SET make = $2, make_image = $3, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, m.ID, m.Make, nullable(m.MakeImage))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgManufacturerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM manufacturers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanManufacturer(row pgx.Row) (domain.Manufacturer, error) {
	var (
		m         domain.Manufacturer
		makeImage *string
	)
	err := row.Scan(&m.ID, &m.Make, &makeImage, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Manufacturer{}, err
	}
	if makeImage != nil {
		m.MakeImage = *makeImage
	}
	return m, nil
}
