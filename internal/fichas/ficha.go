package fichas

import "time"

// Ficha is a workout routine, e.g. "Treino A" for Monday.
type Ficha struct {
	ID        int       `json:"id"`
	UserID    int       `json:"usuario_id"`
	Nome      string    `json:"nome"`
	DiaSemana string    `json:"dia_semana"`
	CreatedAt time.Time `json:"created_at"`
}
