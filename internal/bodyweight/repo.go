package bodyweight

import (
	"context"
	"errors"
	"fmt"

	"github.com/cleberfit/diariodecarga/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// List returns the weight log of one user, oldest first, the order the
// weight chart draws in.
func (r *Repo) List(ctx context.Context, userID int) ([]Entry, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, usuario_id, peso, data_registro
			FROM peso_corporal
			WHERE usuario_id = $1
			ORDER BY data_registro ASC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2entries(rows)
}

func (r *Repo) Append(ctx context.Context, entry Entry) (*Entry, error) {
	rows, err := r.db.Query(
		ctx,
		`INSERT INTO peso_corporal (usuario_id, peso, data_registro)
			VALUES ($1, $2, $3)
		RETURNING id;`,
		entry.UserID, entry.Peso, entry.DataRegistro,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil && pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&entry.ID); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return &entry, nil
}

func rows2entries(rows pgx.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Peso, &entry.DataRegistro,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
