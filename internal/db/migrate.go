package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS usuarios (
	id         SERIAL PRIMARY KEY,
	nome       VARCHAR NOT NULL,
	email      VARCHAR NOT NULL UNIQUE,
	senha_hash VARCHAR NOT NULL,
	created_at TIMESTAMP WITHOUT TIME ZONE NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS fichas (
	id         SERIAL PRIMARY KEY,
	usuario_id INTEGER NOT NULL REFERENCES usuarios (id) ON DELETE CASCADE,
	nome       VARCHAR NOT NULL,
	dia_semana VARCHAR NOT NULL DEFAULT '',
	created_at TIMESTAMP WITHOUT TIME ZONE NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ix_fichas_usuario_id ON fichas (usuario_id);

CREATE TABLE IF NOT EXISTS ficha_exercicios (
	id             SERIAL PRIMARY KEY,
	ficha_id       INTEGER NOT NULL REFERENCES fichas (id) ON DELETE CASCADE,
	nome_exercicio VARCHAR NOT NULL,
	grupo_muscular VARCHAR NOT NULL DEFAULT '',
	setup_notes    TEXT,
	is_biset       BOOLEAN NOT NULL DEFAULT FALSE,
	ordem          INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS ix_ficha_exercicios_ficha_id ON ficha_exercicios (ficha_id);

CREATE TABLE IF NOT EXISTS historico_treinos (
	id                 SERIAL PRIMARY KEY,
	ficha_exercicio_id INTEGER NOT NULL REFERENCES ficha_exercicios (id) ON DELETE CASCADE,
	peso               NUMERIC(6,2) NOT NULL,
	repeticoes         INTEGER NOT NULL,
	tipo_serie         VARCHAR NOT NULL DEFAULT 'valida',
	data_registro      DATE NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_historico_treinos_exercicio_id ON historico_treinos (ficha_exercicio_id);
CREATE INDEX IF NOT EXISTS ix_historico_treinos_data_registro ON historico_treinos (data_registro);

CREATE TABLE IF NOT EXISTS peso_corporal (
	id            SERIAL PRIMARY KEY,
	usuario_id    INTEGER NOT NULL REFERENCES usuarios (id) ON DELETE CASCADE,
	peso          NUMERIC(5,2) NOT NULL,
	data_registro DATE NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_peso_corporal_usuario_id ON peso_corporal (usuario_id);

CREATE TABLE IF NOT EXISTS biblioteca_exercicios (
	id             SERIAL PRIMARY KEY,
	nome           VARCHAR NOT NULL UNIQUE,
	grupo_muscular VARCHAR NOT NULL,
	descricao      TEXT NOT NULL DEFAULT ''
);
`

const librarySeed = `
INSERT INTO biblioteca_exercicios (nome, grupo_muscular, descricao) VALUES
	('Supino Reto', 'Peito', 'Barra, banco plano'),
	('Supino Inclinado', 'Peito', 'Halteres ou barra'),
	('Agachamento Livre', 'Perna', 'Barra nas costas'),
	('Leg Press', 'Perna', ''),
	('Levantamento Terra', 'Costas', 'Barra, pegada dupla'),
	('Puxada Frontal', 'Costas', 'Polia alta'),
	('Remada Curvada', 'Costas', 'Barra ou halteres'),
	('Desenvolvimento Militar', 'Ombro', 'Barra ou halteres'),
	('Elevacao Lateral', 'Ombro', 'Halteres'),
	('Rosca Direta', 'Biceps', 'Barra W ou reta'),
	('Triceps Pulley', 'Triceps', 'Corda ou barra reta'),
	('Panturrilha em Pe', 'Perna', '')
ON CONFLICT (nome) DO NOTHING;
`

// Migrate ensures all tables exist and the exercise library has its
// starter suggestions. Called once at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := pool.Exec(ctx, librarySeed); err != nil {
		return fmt.Errorf("seed exercise library: %w", err)
	}
	return nil
}
