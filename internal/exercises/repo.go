package exercises

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
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrFichaNotFound    = errors.New("ficha not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ListByFicha returns the exercises of a ficha, user arrangement first,
// insertion order as the tie-break.
func (r *Repo) ListByFicha(ctx context.Context, fichaID int) (_ []FichaExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.listByFicha")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("ficha.id", fichaID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, ficha_id, nome_exercicio, grupo_muscular, setup_notes, is_biset, ordem
			FROM ficha_exercicios
			WHERE ficha_id = $1
			ORDER BY ordem ASC, id ASC;`,
		fichaID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	exercises, err := rows2exercises(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2exercises: %w", err)
	}
	return exercises, nil
}

func (r *Repo) Create(ctx context.Context, exercise FichaExercise) (_ *FichaExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO ficha_exercicios (ficha_id, nome_exercicio, grupo_muscular, is_biset)
			VALUES ($1, $2, $3, $4)
		RETURNING id, ordem;`,
		exercise.FichaID, exercise.NomeExercicio, exercise.GrupoMuscular, exercise.IsBiset,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrFichaNotFound
		}
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrFichaNotFound
		}
		return nil, err
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil && pkg.IsForeignKeyViolationError(err) {
			return nil, ErrFichaNotFound
		}
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&exercise.ID, &exercise.Ordem); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))
	return &exercise, nil
}

// UpdateNotes touches only the setup notes and the biset flag, the rest of
// the row stays as is.
func (r *Repo) UpdateNotes(ctx context.Context, id int, notes *string, isBiset bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.updateNotes")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE ficha_exercicios SET setup_notes = $1, is_biset = $2 WHERE id = $3;`,
		notes, isBiset, id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM ficha_exercicios WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func rows2exercises(rows pgx.Rows) ([]FichaExercise, error) {
	var exercises []FichaExercise
	for rows.Next() {
		var exercise FichaExercise
		if err := rows.Scan(
			&exercise.ID, &exercise.FichaID, &exercise.NomeExercicio,
			&exercise.GrupoMuscular, &exercise.SetupNotes, &exercise.IsBiset,
			&exercise.Ordem,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercises = append(exercises, exercise)
	}
	return exercises, nil
}
