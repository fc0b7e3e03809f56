package exercises

// FichaExercise is one exercise slot within a ficha. Ordem keeps the slots in
// the order the user arranged them, SetupNotes holds machine setup scribbles
// like "banco no furo 4".
type FichaExercise struct {
	ID            int     `json:"id"`
	FichaID       int     `json:"ficha_id"`
	NomeExercicio string  `json:"nome_exercicio"`
	GrupoMuscular string  `json:"grupo_muscular"`
	SetupNotes    *string `json:"setup_notes"`
	IsBiset       bool    `json:"is_biset"`
	Ordem         int     `json:"ordem"`
}
