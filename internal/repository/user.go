package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = "id, email, password, registration_date"

type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// RegisterUser stores a new account. A taken email yields ErrConflict
// (the driver error stays in the chain).
func (r *PostgresUserRepository) RegisterUser(ctx context.Context, email, passwordHash string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password, registration_date)
		VALUES ($1, $2, $3)
		RETURNING id`,
		email, passwordHash, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		if sqlerr.ErrCode(err) == sqlerr.UniqueViolation {
			return 0, fmt.Errorf("registering %s: %w: %w", email, ErrConflict, err)
		}
		return 0, fmt.Errorf("registering %s: %w", email, err)
	}
	return id, nil
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", email, err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user %s: %w", email, err)
	}
	return &u, nil
}

func (r *PostgresUserRepository) GetUser(ctx context.Context, id int) (*model.User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, fmt.Errorf("scanning users: %w", err)
	}
	return users, nil
}
