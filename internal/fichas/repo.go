package fichas

import (
	"context"
	"errors"
	"fmt"

	"github.com/cleberfit/diariodecarga/internal/telemetry/tracing"
	"github.com/cleberfit/diariodecarga/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrFichaNotFound = errors.New("ficha not found")
	ErrUserNotFound  = errors.New("user not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// List returns the fichas of one user, in insertion order.
func (r *Repo) List(ctx context.Context, userID int) (_ []Ficha, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fichas.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, usuario_id, nome, dia_semana, created_at
			FROM fichas
			WHERE usuario_id = $1
			ORDER BY id ASC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	fichas, err := rows2fichas(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2fichas: %w", err)
	}
	return fichas, nil
}

func (r *Repo) Create(ctx context.Context, ficha Ficha) (_ *Ficha, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fichas.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO fichas (usuario_id, nome, dia_semana)
			VALUES ($1, $2, $3)
		RETURNING id, created_at;`,
		ficha.UserID, ficha.Nome, ficha.DiaSemana,
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

	if err := rows.Scan(&ficha.ID, &ficha.CreatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("ficha.id", ficha.ID))
	return &ficha, nil
}

// Delete removes a ficha. The exercises of the ficha and their history rows
// go with it, the schema cascades on delete.
func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fichas.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM fichas WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFichaNotFound
	}
	return nil
}

func rows2fichas(rows pgx.Rows) ([]Ficha, error) {
	var fichas []Ficha
	for rows.Next() {
		var ficha Ficha
		if err := rows.Scan(
			&ficha.ID, &ficha.UserID, &ficha.Nome, &ficha.DiaSemana, &ficha.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		fichas = append(fichas, ficha)
	}
	return fichas, nil
}
