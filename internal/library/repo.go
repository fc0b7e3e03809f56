package library

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) ListAll(ctx context.Context) ([]Exercise, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, nome, grupo_muscular, descricao FROM biblioteca_exercicios ORDER BY id ASC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	var exercises []Exercise
	for rows.Next() {
		var exercise Exercise
		if err := rows.Scan(
			&exercise.ID, &exercise.Nome, &exercise.GrupoMuscular, &exercise.Descricao,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercises = append(exercises, exercise)
	}
	return exercises, nil
}
