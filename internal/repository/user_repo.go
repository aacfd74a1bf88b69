package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"car-market/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (domain.User, error)
	ListExcept(ctx context.Context, excludeID int64) ([]domain.User, error)
	Save(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id int64) error
	IncrementTokenVersion(ctx context.Context, id int64) (int64, error)
}

// IsUniqueViolation reporta si el error proviene de un constraint UNIQUE.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const userColumns = `
	id, user_name, email, profile_image, password_hash, google_id,
	role, is_blocked, token_version, created_at, updated_at
`

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
		INSERT INTO users (user_name, email, profile_image, password_hash, google_id, role, is_blocked, token_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		user.UserName,
		user.Email,
		nullable(user.ProfileImage),
		nullable(user.PasswordHash),
		nullable(user.GoogleID),
		user.Role,
		user.IsBlocked,
		user.TokenVersion,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return domain.User{}, err
	}
	user.UpdatedAt = user.CreatedAt
	return user, nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) GetByGoogleID(ctx context.Context, googleID string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, googleID))
}

func (r *PgUserRepository) ListExcept(ctx context.Context, excludeID int64) ([]domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id <> $1
		ORDER BY updated_at DESC
	`
	rows, err := r.pool.Query(ctx, query, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) Save(ctx context.Context, user domain.User) error {
	const query = `
		UPDATE users
		SET user_name = $2, email = $3, profile_image = $4, password_hash = $5,
		    google_id = $6, role = $7, is_blocked = $8, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		user.ID,
		user.UserName,
		user.Email,
		nullable(user.ProfileImage),
		nullable(user.PasswordHash),
		nullable(user.GoogleID),
		user.Role,
		user.IsBlocked,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// IncrementTokenVersion incrementa el contador en un único UPDATE atómico.
// Devuelve la cantidad de filas afectadas; 0 significa usuario inexistente.
func (r *PgUserRepository) IncrementTokenVersion(ctx context.Context, id int64) (int64, error) {
	const query = `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgUserRepository) scanUser(row pgx.Row) (domain.User, error) {
	var (
		u            domain.User
		profileImage *string
		passwordHash *string
		googleID     *string
	)
	err := row.Scan(
		&u.ID,
		&u.UserName,
		&u.Email,
		&profileImage,
		&passwordHash,
		&googleID,
		&u.Role,
		&u.IsBlocked,
		&u.TokenVersion,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	if profileImage != nil {
		u.ProfileImage = *profileImage
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if googleID != nil {
		u.GoogleID = *googleID
	}
	return u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
