package bodyweight

import "time"

type Entry struct {
	ID           int       `json:"id"`
	UserID       int       `json:"usuario_id"`
	Peso         float64   `json:"peso"`
	DataRegistro time.Time `json:"data_registro"`
}
