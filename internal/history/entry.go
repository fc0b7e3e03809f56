package history

import "time"

// Entry is one recorded set: the weight and reps done for an exercise slot on
// a given day. TipoSerie distinguishes working sets from warmups and drop sets.
type Entry struct {
	ID               int       `json:"id"`
	FichaExercicioID int       `json:"ficha_exercicio_id"`
	Peso             float64   `json:"peso"`
	Repeticoes       int       `json:"repeticoes"`
	TipoSerie        string    `json:"tipo_serie"`
	DataRegistro     time.Time `json:"data_registro"`
}

// ExerciseEntry carries the exercise name on top, for the per-user feed.
type ExerciseEntry struct {
	Entry
	NomeExercicio string `json:"nome_exercicio"`
}
