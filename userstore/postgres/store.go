// Package postgres is an insureAuth.UserStore backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	insureAuth "github.com/MrEthical07/insureAuth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const selectColumns = `id, name, email, age, income, role, password`

type Store struct {
	db DBTX
}

func New(db DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*insureAuth.Identity, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM users
		 WHERE email = $1
		 `
	return scanIdentity(s.db.QueryRowContext(ctx, query, email), dbError)
}

func (s *Store) FindByID(ctx context.Context, id string) (*insureAuth.Identity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, insureAuth.ErrUserNotFound
	}

	query :=
		`SELECT ` + selectColumns + ` FROM users
		 WHERE id = $1
		 `
	return scanIdentity(s.db.QueryRowContext(ctx, query, id), dbError)
}

func (s *Store) Insert(ctx context.Context, u insureAuth.Identity) (*insureAuth.Identity, error) {
	u.ID = uuid.NewString()

	query :=
		`INSERT INTO users (id, name, email, age, income, role, password)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `
	_, err := s.db.ExecContext(ctx, query, u.ID, u.Name, u.Email, u.Age, u.Income, string(u.Role), u.SecretHash)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return &u, nil
}

func (s *Store) UpdateSecret(ctx context.Context, id, secretHash string) error {
	if _, err := uuid.Parse(id); err != nil {
		return insureAuth.ErrUserNotFound
	}

	query :=
		`UPDATE users SET password = $2, updated_at = now()
		 WHERE id = $1
		 `
	res, err := s.db.ExecContext(ctx, query, id, secretHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (s *Store) UpdateProfile(ctx context.Context, id string, p insureAuth.ProfileUpdate) (*insureAuth.Identity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, insureAuth.ErrUserNotFound
	}

	query :=
		`UPDATE users SET name = $2, email = $3, age = $4, income = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + selectColumns + `
		 `
	return scanIdentity(s.db.QueryRowContext(ctx, query, id, p.Name, p.Email, p.Age, p.Income), mapWriteError)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return insureAuth.ErrUserNotFound
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func scanIdentity(row *sql.Row, wrap func(error) error) (*insureAuth.Identity, error) {
	var (
		u    insureAuth.Identity
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.Income, &role, &u.SecretHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, insureAuth.ErrUserNotFound
		}
		return nil, wrap(err)
	}
	u.Role = insureAuth.Role(role)
	return &u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return insureAuth.ErrUserNotFound
	}
	return nil
}

func dbError(err error) error {
	return fmt.Errorf("db error: %w", err)
}

// mapWriteError turns a unique-email violation into ErrAccountExists.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return insureAuth.ErrAccountExists
	}
	return dbError(err)
}

var _ insureAuth.UserStore = (*Store)(nil)
