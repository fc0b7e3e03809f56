package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/cleberfit/diariodecarga/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, nome, email, passwordHash string) (*User, error) {
	rows, err := r.db.Query(
		ctx,
		`INSERT INTO usuarios (nome, email, senha_hash)
			VALUES ($1, $2, $3)
		RETURNING id, created_at;`,
		nome, email, passwordHash,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil && pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, errors.New("unexpected error [no rows next]")
	}

	user := User{
		Nome:  nome,
		Email: email,
		// not serialized, but callers may need it for a follow-up login
		PasswordHash: passwordHash,
	}
	if err := rows.Scan(&user.ID, &user.CreatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return &user, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(
		ctx,
		`SELECT id, nome, email, senha_hash, created_at FROM usuarios WHERE email = $1;`,
		email,
	)
}

func (r *Repo) GetByID(ctx context.Context, id int) (*User, error) {
	return r.getOne(
		ctx,
		`SELECT id, nome, email, senha_hash, created_at FROM usuarios WHERE id = $1;`,
		id,
	)
}

func (r *Repo) getOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	users, err := rows2users(rows)
	if err != nil {
		return nil, err
	}

	if len(users) != 1 {
		return nil, ErrUserNotFound
	}

	return &users[0], nil
}

func rows2users(rows pgx.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(
			&user.ID, &user.Nome, &user.Email, &user.PasswordHash, &user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}
