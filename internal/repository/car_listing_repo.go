package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"car-market/internal/domain"
)

// CarListingQueryable expone count + ventana sobre un conjunto ya filtrado.
// Ambas operaciones comparten exactamente las mismas cláusulas.
type CarListingQueryable interface {
	Count(ctx context.Context) (int64, error)
	Window(ctx context.Context, limit, offset int) ([]domain.CarListing, error)
}

// CarListingRepository define el contrato de persistencia para avisos.
type CarListingRepository interface {
	Create(ctx context.Context, listing domain.CarListing) (domain.CarListing, error)
	GetByID(ctx context.Context, id int64) (domain.CarListing, error)
	Save(ctx context.Context, listing domain.CarListing) error
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
	Search(filters domain.CarListingFilters, ownerID *int64) CarListingQueryable
}

// PgCarListingRepository implementa CarListingRepository usando pgxpool.
type PgCarListingRepository struct {
	pool *pgxpool.Pool
}

func NewPgCarListingRepository(pool *pgxpool.Pool) *PgCarListingRepository {
	return &PgCarListingRepository{pool: pool}
}

// priceBounds resuelve la banda de precio a límites fijos.
// PREMIUM no tiene tope superior.
func priceBounds(r domain.PriceRange) (min, max int, hasMax bool) {
	switch r {
	case domain.PriceLow:
		return 0, 10000, true
	case domain.PriceMid:
		return 10000, 20000, true
	case domain.PriceHigh:
		return 20000, 50000, true
	case domain.PricePremium:
		return 50000, 0, false
	}
	return 0, 0, false
}

// compileCarListingFilters traduce filtros opcionales a cláusulas WHERE
// posicionales. Un campo ausente no aporta cláusula. El precio se compara
// como NUMERIC para evitar redondeos de punto flotante en los bordes.
func compileCarListingFilters(f domain.CarListingFilters) (clauses []string, args []any) {
	next := func() int { return len(args) + 1 }

	if f.Year != nil {
		clauses = append(clauses, fmt.Sprintf("car.year = $%d", next()))
		args = append(args, *f.Year)
	}
	if f.PriceRange != nil {
		min, max, hasMax := priceBounds(*f.PriceRange)
		if hasMax {
			clauses = append(clauses, fmt.Sprintf("CAST(car.price AS NUMERIC) BETWEEN $%d AND $%d", next(), next()+1))
			args = append(args, min, max)
		} else {
			clauses = append(clauses, fmt.Sprintf("CAST(car.price AS NUMERIC) > $%d", next()))
			args = append(args, min)
		}
	}
	if f.Model != nil {
		clauses = append(clauses, fmt.Sprintf("model.model ILIKE $%d", next()))
		args = append(args, "%"+*f.Model+"%")
	}
	if f.Manufacturer != nil {
		clauses = append(clauses, fmt.Sprintf("manufacturer.make ILIKE $%d", next()))
		args = append(args, "%"+*f.Manufacturer+"%")
	}
	if f.City != nil {
		clauses = append(clauses, fmt.Sprintf("car.city ILIKE $%d", next()))
		args = append(args, "%"+*f.City+"%")
	}
	if f.BodyType != nil {
		clauses = append(clauses, fmt.Sprintf("car.body_type ILIKE $%d", next()))
		args = append(args, "%"+string(*f.BodyType)+"%")
	}
	if f.CarStatus != nil {
		clauses = append(clauses, fmt.Sprintf("car.car_status = $%d", next()))
		args = append(args, string(*f.CarStatus))
	}
	if f.InStock != nil {
		clauses = append(clauses, fmt.Sprintf("car.in_stock = $%d", next()))
		args = append(args, *f.InStock)
	}
	return clauses, args
}

const carListingFrom = `
	FROM car_listings car
	JOIN manufacturers manufacturer ON manufacturer.id = car.manufacturer_id
	JOIN car_models model ON model.id = car.model_id
`

const carListingColumns = `
	car.id, car.body_type, car.fuel_type, car.year, car.engine_capacity::text,
	car.turbo, car.mileage, car.mileage_type, car.transmission, car.description,
	car.region, car.city, car.photos, car.video, car.price::text, car.phone_number,
	car.car_status, car.in_stock, car.is_sold, car.owner_id, car.views_count,
	car.created_at, car.updated_at,
	manufacturer.id, manufacturer.make, manufacturer.make_image,
	manufacturer.created_at, manufacturer.updated_at,
	model.id, model.model, model.created_at, model.updated_at
`

func (r *PgCarListingRepository) Create(ctx context.Context, listing domain.CarListing) (domain.CarListing, error) {
	const query = `
		INSERT INTO car_listings (
			body_type, fuel_type, manufacturer_id, model_id, year, engine_capacity,
			turbo, mileage, mileage_type, transmission, description, region, city,
			photos, video, price, phone_number, car_status, in_stock, is_sold,
			owner_id, views_count, created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4, $5, NULLIF($6, '')::numeric,
			$7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16::numeric, $17, $18, $19, $20,
			$21, 0, $22, $22
		)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		listing.BodyType,
		listing.FuelType,
		listing.Manufacturer.ID,
		listing.Model.ID,
		listing.Year,
		listing.EngineCapacity,
		listing.Turbo,
		listing.Mileage,
		listing.MileageType,
		listing.Transmission,
		listing.Description,
		listing.Region,
		listing.City,
		listing.Photos,
		nullable(listing.Video),
		listing.Price,
		listing.PhoneNumber,
		listing.CarStatus,
		listing.InStock,
		listing.IsSold,
		listing.OwnerID,
		listing.CreatedAt,
	).Scan(&listing.ID)
	if err != nil {
		return domain.CarListing{}, err
	}
	listing.UpdatedAt = listing.CreatedAt
	return listing, nil
}

func (r *PgCarListingRepository) GetByID(ctx context.Context, id int64) (domain.CarListing, error) {
	query := `SELECT ` + carListingColumns + carListingFrom + ` WHERE car.id = $1`
	return scanCarListing(r.pool.QueryRow(ctx, query, id))
}

func (r *PgCarListingRepository) Save(ctx context.Context, listing domain.CarListing) error {
	const query = `
		UPDATE car_listings
		SET body_type = $2, fuel_type = $3, manufacturer_id = $4, model_id = $5,
		    year = $6, engine_capacity = NULLIF($7, '')::numeric, turbo = $8,
		    mileage = $9, mileage_type = $10, transmission = $11, description = $12,
		    region = $13, city = $14, photos = $15, video = $16, price = $17::numeric,
		    phone_number = $18, car_status = $19, in_stock = $20, is_sold = $21,
		    updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		listing.ID,
		listing.BodyType,
		listing.FuelType,
		listing.Manufacturer.ID,
		listing.Model.ID,
		listing.Year,
		listing.EngineCapacity,
		listing.Turbo,
		listing.Mileage,
		listing.MileageType,
		listing.Transmission,
		listing.Description,
		listing.Region,
		listing.City,
		listing.Photos,
		nullable(listing.Video),
		listing.Price,
		listing.PhoneNumber,
		listing.CarStatus,
		listing.InStock,
		listing.IsSold,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgCarListingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM car_listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgCarListingRepository) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE car_listings SET views_count = views_count + 1 WHERE id = $1`, id)
	return err
}

// Search compila los filtros una sola vez; count y ventana reutilizan
// las mismas cláusulas y argumentos.
func (r *PgCarListingRepository) Search(filters domain.CarListingFilters, ownerID *int64) CarListingQueryable {
	clauses, args := compileCarListingFilters(filters)
	if ownerID != nil {
		clauses = append(clauses, fmt.Sprintf("car.owner_id = $%d", len(args)+1))
		args = append(args, *ownerID)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	return &carListingQuery{pool: r.pool, where: where, args: args}
}

type carListingQuery struct {
	pool  *pgxpool.Pool
	where string
	args  []any
}

func (q *carListingQuery) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*)` + carListingFrom + q.where
	var total int64
	if err := q.pool.QueryRow(ctx, query, q.args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (q *carListingQuery) Window(ctx context.Context, limit, offset int) ([]domain.CarListing, error) {
	query := fmt.Sprintf(
		`SELECT %s %s %s ORDER BY car.created_at DESC LIMIT $%d OFFSET $%d`,
		carListingColumns, carListingFrom, q.where, len(q.args)+1, len(q.args)+2,
	)
	args := append(append([]any{}, q.args...), limit, offset)
	rows, err := q.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.CarListing
	for rows.Next() {
		l, err := scanCarListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func scanCarListing(row pgx.Row) (domain.CarListing, error) {
	var (
		l              domain.CarListing
		engineCapacity *string
		video          *string
		makeImage      *string
	)
	err := row.Scan(
		&l.ID,
		&l.BodyType,
		&l.FuelType,
		&l.Year,
		&engineCapacity,
		&l.Turbo,
		&l.Mileage,
		&l.MileageType,
		&l.Transmission,
		&l.Description,
		&l.Region,
		&l.City,
		&l.Photos,
		&video,
		&l.Price,
		&l.PhoneNumber,
		&l.CarStatus,
		&l.InStock,
		&l.IsSold,
		&l.OwnerID,
		&l.ViewsCount,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.Manufacturer.ID,
		&l.Manufacturer.Make,
		&makeImage,
		&l.Manufacturer.CreatedAt,
		&l.Manufacturer.UpdatedAt,
		&l.Model.ID,
		&l.Model.Model,
		&l.Model.CreatedAt,
		&l.Model.UpdatedAt,
	)
	if err != nil {
		return domain.CarListing{}, err
	}
	if engineCapacity != nil {
		l.EngineCapacity = *engineCapacity
	}
	if video != nil {
		l.Video = *video
	}
	if makeImage != nil {
		l.Manufacturer.MakeImage = *makeImage
	}
	return l, nil
}
