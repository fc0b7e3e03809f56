package exercises_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cleberfit/diariodecarga/internal/exercises"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testRouter(h *exercises.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/exercicios", h.HandleList).Methods("GET")
	r.HandleFunc("/api/exercicios", h.HandleCreate).Methods("POST")
	r.HandleFunc("/api/exercicios/{id}", h.HandleUpdate).Methods("PUT")
	r.HandleFunc("/api/exercicios/{id}", h.HandleDelete).Methods("DELETE")
	return r
}

func TestHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockexercisesRepo(ctrl)
	h := exercises.NewHandler(repoMock)

	notes := "banco no furo 4"
	repoMock.EXPECT().
		ListByFicha(gomock.Any(), 3).
		Return([]exercises.FichaExercise{
			{ID: 1, FichaID: 3, NomeExercicio: "Supino reto", GrupoMuscular: "peito", Ordem: 0},
			{ID: 2, FichaID: 3, NomeExercicio: "Crucifixo", GrupoMuscular: "peito", SetupNotes: &notes, IsBiset: true, Ordem: 1},
		}, nil)

	req, err := http.NewRequest("GET", "/api/exercicios?ficha_id=3", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []exercises.ExerciseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Supino reto", resp[0].NomeExercicio)
	assert.Nil(t, resp[0].SetupNotes)
	assert.Equal(t, "Crucifixo", resp[1].NomeExercicio)
	require.NotNil(t, resp[1].SetupNotes)
	assert.Equal(t, notes, *resp[1].SetupNotes)
	assert.True(t, resp[1].IsBiset)
}

func TestHandler_List_empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockexercisesRepo(ctrl)
	h := exercises.NewHandler(repoMock)

	repoMock.EXPECT().
		ListByFicha(gomock.Any(), 99).
		Return(nil, nil)

	req, err := http.NewRequest("GET", "/api/exercicios?ficha_id=99", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestHandler_List_missingFichaID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockexercisesRepo(ctrl)
	h := exercises.NewHandler(repoMock)

	req, err := http.NewRequest("GET", "/api/exercicios", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockexercisesRepo(ctrl)
	h := exercises.NewHandler(repoMock)

	repoMock.EXPECT().
		Create(gomock.Any(), exercises.FichaExercise{
			FichaID:       3,
			NomeExercicio: "Supino reto",
			GrupoMuscular: "peito",
		}).
		Return(&exercises.FichaExercise{
			ID:            1,
			FichaID:       3,
			NomeExercicio: "Supino reto",
			GrupoMuscular: "peito",
		}, nil)

	reqJson := `{"ficha_id":3,"nome":"Supino reto","grupo":"peito"}`
	req, err := http.NewRequest("POST", "/api/exercicios", bytes.NewReader([]byte(reqJson)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"success":true}`, rec.Body.String())
}

func TestHandler_Create_fichaNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockexercisesRepo(ctrl)
	h := exercises.NewHandler(repoMock)

	repoMock.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, exercises.ErrFichaNotFound)

	reqJson := `{"ficha_id":99,"nome":"Supino reto","grupo":"peito"}`
	req, err := http.NewRequest("POST", "/api/exercicios", bytes.NewReader([]byte(reqJson)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ficha não encontrada")
}

func TestHandler_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockexercisesRepo(ctrl)
	h := exercises.NewHandler(repoMock)

	notes := "banco no furo 4"
	repoMock.EXPECT().
		UpdateNotes(gomock.Any(), 2, &notes, true).
		Return(nil).
		Times(2)

	reqJson := `{"notes":"banco no furo 4","is_biset":true}`

	// same update applied twice ends in the same state
	for i := 0; i < 2; i++ {
		req, err := http.NewRequest("PUT", "/api/exercicios/2", bytes.NewReader([]byte(reqJson)))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `{"success":true}`, rec.Body.String())
	}
}

func TestHandler_Update_notFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockexercisesRepo(ctrl)
	h := exercises.NewHandler(repoMock)

	repoMock.EXPECT().
		UpdateNotes(gomock.Any(), 99, gomock.Nil(), false).
		Return(exercises.ErrExerciseNotFound)

	req, err := http.NewRequest("PUT", "/api/exercicios/99", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockexercisesRepo(ctrl)
	h := exercises.NewHandler(repoMock)

	gomock.InOrder(
		repoMock.EXPECT().Delete(gomock.Any(), 2).Return(nil),
		repoMock.EXPECT().Delete(gomock.Any(), 2).Return(exercises.ErrExerciseNotFound),
	)

	// second delete hits a gone exercise, still reports success
	for i := 0; i < 2; i++ {
		req, err := http.NewRequest("DELETE", "/api/exercicios/2", nil)
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		testRouter(h).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `{"success":true}`, rec.Body.String())
	}
}
