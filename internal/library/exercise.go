package library

// Exercise is a suggestion from the shared exercise catalog, not tied to any
// user or ficha.
type Exercise struct {
	ID            int    `json:"id"`
	Nome          string `json:"nome"`
	GrupoMuscular string `json:"grupo_muscular"`
	Descricao     string `json:"descricao"`
}
