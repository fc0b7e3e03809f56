package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cleberfit/diariodecarga/internal/identity"
	"github.com/cleberfit/diariodecarga/internal/telemetry/metrics"
	"github.com/cleberfit/diariodecarga/internal/telemetry/tracing"
	"github.com/cleberfit/diariodecarga/pkg"

	log "github.com/sirupsen/logrus"
)

const defaultTipoSerie = "valida"

type historyRepo interface {
	ListForExercise(ctx context.Context, exerciseID int) ([]Entry, error)
	ListForUser(ctx context.Context, userID int) ([]ExerciseEntry, error)
	Append(ctx context.Context, entry Entry) (*Entry, error)
}

type identityResolver interface {
	ResolveRequest(r *http.Request, email string) (int, error)
}

type Handler struct {
	repo     historyRepo
	resolver identityResolver
	metrics  *metrics.Manager
}

func NewHandler(
	repo historyRepo,
	resolver identityResolver,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:     repo,
		resolver: resolver,
		metrics:  metricsManager,
	}
}

// HandleList serves two views: ?exercicio_id= returns the sets of one
// exercise slot for the progress chart, ?email= (or the session) returns the
// whole user feed for the calendar heatmap.
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "historyHandler.list")
	defer span.End()

	query := r.URL.Query()
	if exerciseIDStr := query.Get("exercicio_id"); exerciseIDStr != "" {
		exerciseID, err := strconv.Atoi(exerciseIDStr)
		if err != nil {
			pkg.WriteJSONError(w, "exercicio_id inválido", http.StatusBadRequest)
			return
		}
		handler.listForExercise(ctx, w, exerciseID)
		return
	}

	userID, err := handler.resolver.ResolveRequest(r, query.Get("email"))
	if err != nil {
		if errors.Is(err, identity.ErrNoIdentity) {
			pkg.WriteJSONResponseOK(w, "[]")
			return
		}
		log.Errorf("list history, resolve identity: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	entries, err := handler.repo.ListForUser(ctx, userID)
	if err != nil {
		log.Errorf("list history for user %d: %s", userID, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []ExerciseEntry{}
	}
	respJson, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("list history, marshal response: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) listForExercise(ctx context.Context, w http.ResponseWriter, exerciseID int) {
	entries, err := handler.repo.ListForExercise(ctx, exerciseID)
	if err != nil {
		log.Errorf("list history for exercise %d: %s", exerciseID, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []Entry{}
	}
	respJson, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("list history, marshal response: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleAppend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "historyHandler.append")
	defer span.End()

	type appendRequest struct {
		FichaExercicioID int     `json:"ficha_exercicio_id"`
		Peso             float64 `json:"peso"`
		Reps             int     `json:"reps"`
		Tipo             string  `json:"tipo"`
		DataRegistro     string  `json:"data_registro"`
	}

	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("append history, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
		return
	}

	if req.FichaExercicioID == 0 {
		pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
		return
	}

	if req.Tipo == "" {
		req.Tipo = defaultTipoSerie
	}

	dataRegistro := time.Now()
	if req.DataRegistro != "" {
		var err error
		if dataRegistro, err = pkg.ParseDate(req.DataRegistro); err != nil {
			pkg.WriteJSONError(w, "data_registro inválida", http.StatusBadRequest)
			return
		}
	}

	entry, err := handler.repo.Append(ctx, Entry{
		FichaExercicioID: req.FichaExercicioID,
		Peso:             req.Peso,
		Repeticoes:       req.Reps,
		TipoSerie:        req.Tipo,
		DataRegistro:     dataRegistro,
	})
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			pkg.WriteJSONError(w, "Exercício não encontrado", http.StatusNotFound)
			return
		}
		log.Errorf("append history for exercise %d: %s", req.FichaExercicioID, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterHistoryEntries.Inc()
	log.Debugf("new history entry %d for exercise %d", entry.ID, entry.FichaExercicioID)
	pkg.WriteJSONResponseOK(w, `{"success":true}`)
}
