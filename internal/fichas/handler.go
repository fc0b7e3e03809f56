package fichas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cleberfit/diariodecarga/internal/identity"
	"github.com/cleberfit/diariodecarga/internal/telemetry/metrics"
	"github.com/cleberfit/diariodecarga/internal/telemetry/tracing"
	"github.com/cleberfit/diariodecarga/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type fichasRepo interface {
	List(ctx context.Context, userID int) ([]Ficha, error)
	Create(ctx context.Context, ficha Ficha) (*Ficha, error)
	Delete(ctx context.Context, id int) error
}

type identityResolver interface {
	ResolveRequest(r *http.Request, email string) (int, error)
}

// FichaResponse carries dia_semana twice, older frontend builds read `dia`.
type FichaResponse struct {
	ID        int    `json:"id"`
	Nome      string `json:"nome"`
	DiaSemana string `json:"dia_semana"`
	Dia       string `json:"dia"`
}

type Handler struct {
	repo     fichasRepo
	resolver identityResolver
	metrics  *metrics.Manager
}

func NewHandler(
	repo fichasRepo,
	resolver identityResolver,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:     repo,
		resolver: resolver,
		metrics:  metricsManager,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "fichasHandler.list")
	defer span.End()

	userID, err := handler.resolver.ResolveRequest(r, r.URL.Query().Get("email"))
	if err != nil {
		if errors.Is(err, identity.ErrNoIdentity) {
			// reads for an unknown identity degrade to an empty list
			pkg.WriteJSONResponseOK(w, "[]")
			return
		}
		log.Errorf("list fichas, resolve identity: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	fichas, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("list fichas for user %d: %s", userID, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	resp := make([]FichaResponse, 0, len(fichas))
	for _, ficha := range fichas {
		resp = append(resp, FichaResponse{
			ID:        ficha.ID,
			Nome:      ficha.Nome,
			DiaSemana: ficha.DiaSemana,
			Dia:       ficha.DiaSemana,
		})
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("list fichas, marshal response: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "fichasHandler.create")
	defer span.End()

	type createRequest struct {
		UserEmail string `json:"user_email"`
		Nome      string `json:"nome"`
		Dia       string `json:"dia"`
	}

	var req createRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Tracef("create ficha, unmarshal json params: %s", err)
			pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("create ficha, parse form error: %s", err)
			pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
			return
		}
		req = createRequest{
			UserEmail: r.Form.Get("user_email"),
			Nome:      r.Form.Get("nome"),
			Dia:       r.Form.Get("dia"),
		}
	}

	if req.Nome == "" || req.Dia == "" {
		pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
		return
	}

	userID, err := handler.resolver.ResolveRequest(r, req.UserEmail)
	if err != nil {
		if errors.Is(err, identity.ErrNoIdentity) {
			pkg.WriteJSONError(w, "Usuário não encontrado", http.StatusNotFound)
			return
		}
		log.Errorf("create ficha, resolve identity: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	ficha, err := handler.repo.Create(ctx, Ficha{
		UserID:    userID,
		Nome:      req.Nome,
		DiaSemana: req.Dia,
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			pkg.WriteJSONError(w, "Usuário não encontrado", http.StatusNotFound)
			return
		}
		log.Errorf("create ficha for user %d: %s", userID, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterFichas.Inc()
	log.Debugf("new ficha %d [%s] for user %d", ficha.ID, ficha.Nome, userID)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"success":true,"id":%d}`, ficha.ID))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "fichasHandler.delete")
	defer span.End()

	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		pkg.WriteJSONError(w, "id inválido", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrFichaNotFound) {
			// deleting twice is fine
			log.Tracef("delete ficha %d: already gone", id)
			pkg.WriteJSONResponseOK(w, `{"success":true}`)
			return
		}
		log.Errorf("delete ficha %d: %s", id, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"success":true}`)
}
