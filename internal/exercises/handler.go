package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/cleberfit/diariodecarga/internal/telemetry/tracing"
	"github.com/cleberfit/diariodecarga/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=exercises_mocks_test.go -package=exercises_test

type exercisesRepo interface {
	ListByFicha(ctx context.Context, fichaID int) ([]FichaExercise, error)
	Create(ctx context.Context, exercise FichaExercise) (*FichaExercise, error)
	UpdateNotes(ctx context.Context, id int, notes *string, isBiset bool) error
	Delete(ctx context.Context, id int) error
}

type ExerciseResponse struct {
	ID            int     `json:"id"`
	FichaID       int     `json:"ficha_id"`
	NomeExercicio string  `json:"nome_exercicio"`
	GrupoMuscular string  `json:"grupo_muscular"`
	SetupNotes    *string `json:"setup_notes"`
	IsBiset       bool    `json:"is_biset"`
}

type Handler struct {
	repo exercisesRepo
}

func NewHandler(repo exercisesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.list")
	defer span.End()

	fichaIDStr := r.URL.Query().Get("ficha_id")
	if fichaIDStr == "" {
		pkg.WriteJSONError(w, "ficha_id obrigatório", http.StatusBadRequest)
		return
	}
	fichaID, err := strconv.Atoi(fichaIDStr)
	if err != nil {
		pkg.WriteJSONError(w, "ficha_id inválido", http.StatusBadRequest)
		return
	}

	exercises, err := handler.repo.ListByFicha(ctx, fichaID)
	if err != nil {
		log.Errorf("list exercises for ficha %d: %s", fichaID, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	resp := make([]ExerciseResponse, 0, len(exercises))
	for _, exercise := range exercises {
		resp = append(resp, ExerciseResponse{
			ID:            exercise.ID,
			FichaID:       exercise.FichaID,
			NomeExercicio: exercise.NomeExercicio,
			GrupoMuscular: exercise.GrupoMuscular,
			SetupNotes:    exercise.SetupNotes,
			IsBiset:       exercise.IsBiset,
		})
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("list exercises, marshal response: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.create")
	defer span.End()

	type createRequest struct {
		FichaID int    `json:"ficha_id"`
		Nome    string `json:"nome"`
		Grupo   string `json:"grupo"`
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("create exercise, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
		return
	}

	if req.FichaID == 0 || req.Nome == "" {
		pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
		return
	}

	exercise, err := handler.repo.Create(ctx, FichaExercise{
		FichaID:       req.FichaID,
		NomeExercicio: req.Nome,
		GrupoMuscular: req.Grupo,
	})
	if err != nil {
		if errors.Is(err, ErrFichaNotFound) {
			pkg.WriteJSONError(w, "Ficha não encontrada", http.StatusNotFound)
			return
		}
		log.Errorf("create exercise for ficha %d: %s", req.FichaID, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	log.Debugf("new exercise %d [%s] in ficha %d", exercise.ID, exercise.NomeExercicio, exercise.FichaID)
	pkg.WriteJSONResponseOK(w, `{"success":true}`)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.update")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, "id inválido", http.StatusBadRequest)
		return
	}

	type updateRequest struct {
		Notes   *string `json:"notes"`
		IsBiset bool    `json:"is_biset"`
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update exercise, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
		return
	}

	if err := handler.repo.UpdateNotes(ctx, id, req.Notes, req.IsBiset); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			pkg.WriteJSONError(w, "Exercício não encontrado", http.StatusNotFound)
			return
		}
		log.Errorf("update exercise %d: %s", id, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"success":true}`)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, "id inválido", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			// deleting twice is fine
			log.Tracef("delete exercise %d: already gone", id)
			pkg.WriteJSONResponseOK(w, `{"success":true}`)
			return
		}
		log.Errorf("delete exercise %d: %s", id, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"success":true}`)
}
