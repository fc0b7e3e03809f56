package library

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cleberfit/diariodecarga/pkg"

	log "github.com/sirupsen/logrus"
)

type libraryRepo interface {
	ListAll(ctx context.Context) ([]Exercise, error)
}

type Handler struct {
	repo libraryRepo
}

func NewHandler(repo libraryRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

// HandleList serves the shared exercise catalog. No identity needed, the
// catalog is the same for everyone.
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	exercises, err := handler.repo.ListAll(r.Context())
	if err != nil {
		log.Errorf("list exercise library: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	if exercises == nil {
		exercises = []Exercise{}
	}
	respJson, err := json.Marshal(exercises)
	if err != nil {
		log.Errorf("list exercise library, marshal response: %s", err)
		pkg.WriteJSONError(w, "Erro no servidor.", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
