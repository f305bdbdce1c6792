package adapter

import (
	"context"
	"errors"
	"time"

	"go-convo/internal/infrastructure/metrics"
	directory "go-convo/internal/pkg/directory/application/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) ListAll(ctx context.Context) ([]directory.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	defer metrics.ObservePostgres(time.Now())

	rows, err := r.pool.Query(ctx, `
		SELECT username, display_name, avatar
		FROM users
		ORDER BY display_name, username
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[directory.User])
}

func (r *PgUserRepository) FindByUsername(ctx context.Context, username string) (directory.User, error) {
	if r == nil || r.pool == nil {
		return directory.User{}, errors.New("PgUserRepository: nil pool")
	}
	defer metrics.ObservePostgres(time.Now())

	var u directory.User
	err := r.pool.QueryRow(ctx,
		"SELECT username, display_name, avatar FROM users WHERE username = $1",
		username,
	).Scan(&u.Username, &u.DisplayName, &u.Avatar)
	if errors.Is(err, pgx.ErrNoRows) {
		return directory.User{}, directory.ErrUserNotFound
	}
	return u, err
}

func (r *PgUserRepository) Upsert(ctx context.Context, u directory.User) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	defer metrics.ObservePostgres(time.Now())

	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (username, display_name, avatar)
		VALUES ($1, $2, $3)
		ON CONFLICT (username)
		DO UPDATE SET display_name = EXCLUDED.display_name,
		              avatar = EXCLUDED.avatar
	`, u.Username, u.DisplayName, u.Avatar)
	return err
}
