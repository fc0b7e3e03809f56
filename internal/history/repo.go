package history

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

var ErrExerciseNotFound = errors.New("exercise not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ListForExercise returns the recorded sets of one exercise slot, newest
// first. Same-day rows come back in reverse insertion order.
func (r *Repo) ListForExercise(ctx context.Context, exerciseID int) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.listForExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, ficha_exercicio_id, peso, repeticoes, tipo_serie, data_registro
			FROM historico_treinos
			WHERE ficha_exercicio_id = $1
			ORDER BY data_registro DESC, id DESC;`,
		exerciseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	entries, err := rows2entries(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2entries: %w", err)
	}
	return entries, nil
}

// ListForUser walks the join chain historico -> ficha_exercicios -> fichas to
// scope the feed to one user. There is no user id on the history rows, the
// chain is the only ownership path.
func (r *Repo) ListForUser(ctx context.Context, userID int) (_ []ExerciseEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.listForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT
				h.id, h.ficha_exercicio_id, h.peso, h.repeticoes, h.tipo_serie, h.data_registro,
				fe.nome_exercicio
			FROM historico_treinos h
			JOIN ficha_exercicios fe ON h.ficha_exercicio_id = fe.id
			JOIN fichas f ON fe.ficha_id = f.id
			WHERE f.usuario_id = $1
			ORDER BY h.data_registro DESC, h.id DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	var entries []ExerciseEntry
	for rows.Next() {
		var entry ExerciseEntry
		if err := rows.Scan(
			&entry.ID, &entry.FichaExercicioID, &entry.Peso, &entry.Repeticoes,
			&entry.TipoSerie, &entry.DataRegistro, &entry.NomeExercicio,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Append records a set. History rows are never updated, only added.
func (r *Repo) Append(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO historico_treinos
				(ficha_exercicio_id, peso, repeticoes, tipo_serie, data_registro)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		entry.FichaExercicioID, entry.Peso, entry.Repeticoes, entry.TipoSerie, entry.DataRegistro,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil && pkg.IsForeignKeyViolationError(err) {
			return nil, ErrExerciseNotFound
		}
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&entry.ID); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("entry.id", entry.ID))
	return &entry, nil
}

func rows2entries(rows pgx.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(
			&entry.ID, &entry.FichaExercicioID, &entry.Peso, &entry.Repeticoes,
			&entry.TipoSerie, &entry.DataRegistro,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
