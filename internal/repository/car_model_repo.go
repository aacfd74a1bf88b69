package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"car-market/internal/domain"
)

// CarModelRepository define el contrato de persistencia para modelos.
type CarModelRepository interface {
	Create(ctx context.Context, m domain.CarModel) (domain.CarModel, error)
	GetByID(ctx context.Context, id int64) (domain.CarModel, error)
	List(ctx context.Context) ([]domain.CarModel, error)
	Save(ctx context.Context, m domain.CarModel) error
	Delete(ctx context.Context, id int64) error
}

// PgCarModelRepository implementa CarModelRepository usando pgxpool.
type PgCarModelRepository struct {
	pool *pgxpool.Pool
}

func NewPgCarModelRepository(pool *pgxpool.Pool) *PgCarModelRepository {
	return &PgCarModelRepository{pool: pool}
}

func (r *PgCarModelRepository) Create(ctx context.Context, m domain.CarModel) (domain.CarModel, error) {
	const query = `
		INSERT INTO car_models (model, created_at, updated_at)
		VALUES ($1, $2, $2)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query, m.Model, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return domain.CarModel{}, err
	}
	m.UpdatedAt = m.CreatedAt
	return m, nil
}

func (r *PgCarModelRepository) GetByID(ctx context.Context, id int64) (domain.CarModel, error) {
	const query = `SELECT id, model, created_at, updated_at FROM car_models WHERE id = $1`
	var m domain.CarModel
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Model, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.CarModel{}, err
	}
	return m, nil
}

func (r *PgCarModelRepository) List(ctx context.Context) ([]domain.CarModel, error) {
	const query = `SELECT id, model, created_at, updated_at FROM car_models ORDER BY model`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []domain.CarModel
	for rows.Next() {
		var m domain.CarModel
		if err := rows.Scan(&m.ID, &m.Model, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

func (r *PgCarModelRepository) Save(ctx context.Context, m domain.CarModel) error {
	const query = `UPDATE car_models SET model = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, m.ID, m.Model)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgCarModelRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM car_models WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
