package bodyweight

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/cleberfit/diariodecarga/internal/identity"
	"github.com/cleberfit/diariodecarga/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type resolverMock struct {
	userID int
	err    error
}

func (m *resolverMock) ResolveRequest(_ *http.Request, _ string) (int, error) {
	return m.userID, m.err
}

type repoMock struct {
	nextID  int
	entries []Entry
}

func newRepoMock() *repoMock {
	return &repoMock{nextID: 1}
}

func (r *repoMock) List(_ context.Context, userID int) ([]Entry, error) {
	var entries []Entry
	for _, e := range r.entries {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DataRegistro.Before(entries[j].DataRegistro)
	})
	return entries, nil
}

func (r *repoMock) Append(_ context.Context, entry Entry) (*Entry, error) {
	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, entry)
	return &entry, nil
}

func day(d string) time.Time {
	parsed, err := time.Parse("2006-01-02", d)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestHandler_List(t *testing.T) {
	repo := newRepoMock()
	ctx := context.Background()

	_, err := repo.Append(ctx, Entry{UserID: 1, Peso: 82.5, DataRegistro: day("2025-03-12")})
	require.NoError(t, err)
	_, err = repo.Append(ctx, Entry{UserID: 1, Peso: 83.1, DataRegistro: day("2025-03-01")})
	require.NoError(t, err)
	_, err = repo.Append(ctx, Entry{UserID: 2, Peso: 60, DataRegistro: day("2025-03-05")})
	require.NoError(t, err)

	handler := NewHandler(repo, &resolverMock{userID: 1}, metrics.NewTestManager())

	req, err := http.NewRequest("GET", "/api/peso?email=cleber@example.com", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []WeightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	// oldest first
	assert.Equal(t, 83.1, resp[0].Weight)
	assert.Equal(t, 82.5, resp[1].Weight)
}

func TestHandler_List_noIdentity(t *testing.T) {
	handler := NewHandler(
		newRepoMock(),
		&resolverMock{err: identity.ErrNoIdentity},
		metrics.NewTestManager(),
	)

	req, err := http.NewRequest("GET", "/api/peso", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestHandler_Append(t *testing.T) {
	repo := newRepoMock()
	handler := NewHandler(repo, &resolverMock{userID: 1}, metrics.NewTestManager())

	reqJson := `{"user_email":"cleber@example.com","weight":82.5,"date":"2025-03-12"}`
	req, err := http.NewRequest("POST", "/api/peso", bytes.NewReader([]byte(reqJson)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleAppend(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"success":true}`, rec.Body.String())

	entries, err := repo.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 82.5, entries[0].Peso)
	assert.Equal(t, day("2025-03-12"), entries[0].DataRegistro)
}

func TestHandler_Append_noIdentity(t *testing.T) {
	handler := NewHandler(
		newRepoMock(),
		&resolverMock{err: identity.ErrNoIdentity},
		metrics.NewTestManager(),
	)

	reqJson := `{"user_email":"nobody@example.com","weight":82.5,"date":"2025-03-12"}`
	req, err := http.NewRequest("POST", "/api/peso", bytes.NewReader([]byte(reqJson)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleAppend(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestHandler_Append_invalidWeight(t *testing.T) {
	handler := NewHandler(newRepoMock(), &resolverMock{userID: 1}, metrics.NewTestManager())

	reqJson := `{"user_email":"cleber@example.com","weight":0,"date":"2025-03-12"}`
	req, err := http.NewRequest("POST", "/api/peso", bytes.NewReader([]byte(reqJson)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleAppend(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
