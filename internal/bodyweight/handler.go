package bodyweight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cleberfit/diariodecarga/internal/identity"
	"github.com/cleberfit/diariodecarga/internal/telemetry/metrics"
	"github.com/cleberfit/diariodecarga/pkg"

	log "github.com/sirupsen/logrus"
)

type bodyweightRepo interface {
	List(ctx context.Context, userID int) ([]Entry, error)
	Append(ctx context.Context, entry Entry) (*Entry, error)
}

type identityResolver interface {
	ResolveRequest(r *http.Request, email string) (int, error)
}

// WeightResponse is the shape the weight chart consumes.
type WeightResponse struct {
	Weight float64   `json:"weight"`
	Date   time.Time `json:"date"`
}

type Handler struct {
	repo     bodyweightRepo
	resolver identityResolver
	metrics  *metrics.Manager
}

func NewHandler(
	repo bodyweightRepo,
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
	userID, err := handler.resolver.ResolveRequest(r, r.URL.Query().Get("email"))
	if err != nil {
		if errors.Is(err, identity.ErrNoIdentity) {
			pkg.WriteJSONResponseOK(w, "[]")
			return
		}
		log.Errorf("list bodyweight, resolve identity: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	entries, err := handler.repo.List(r.Context(), userID)
	if err != nil {
		log.Errorf("list bodyweight for user %d: %s", userID, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	resp := make([]WeightResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, WeightResponse{
			Weight: entry.Peso,
			Date:   entry.DataRegistro,
		})
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("list bodyweight, marshal response: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleAppend(w http.ResponseWriter, r *http.Request) {
	type appendRequest struct {
		UserEmail string  `json:"user_email"`
		Weight    float64 `json:"weight"`
		Date      string  `json:"date"`
	}

	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("append bodyweight, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
		return
	}

	if req.Weight <= 0 {
		pkg.WriteJSONError(w, "Dados incompletos.", http.StatusBadRequest)
		return
	}

	userID, err := handler.resolver.ResolveRequest(r, req.UserEmail)
	if err != nil {
		if errors.Is(err, identity.ErrNoIdentity) {
			pkg.WriteJSONError(w, "User not found", http.StatusNotFound)
			return
		}
		log.Errorf("append bodyweight, resolve identity: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	date := time.Now()
	if req.Date != "" {
		if date, err = pkg.ParseDate(req.Date); err != nil {
			pkg.WriteJSONError(w, "data inválida", http.StatusBadRequest)
			return
		}
	}

	entry, err := handler.repo.Append(r.Context(), Entry{
		UserID:       userID,
		Peso:         req.Weight,
		DataRegistro: date,
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			pkg.WriteJSONError(w, "User not found", http.StatusNotFound)
			return
		}
		log.Errorf("append bodyweight for user %d: %s", userID, err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWeightEntries.Inc()
	log.Debugf("new bodyweight entry %d for user %d", entry.ID, userID)
	pkg.WriteJSONResponseOK(w, `{"success":true}`)
}
