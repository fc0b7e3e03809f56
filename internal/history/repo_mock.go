package history

import (
	"context"
	"sort"
)

type mockExerciseInfo struct {
	UserID int
	Nome   string
}

type repoMock struct {
	nextID    int
	entries   []Entry
	exercises map[int]mockExerciseInfo
}

func NewMockHistoryRepo() *repoMock {
	return &repoMock{
		nextID:    1,
		exercises: make(map[int]mockExerciseInfo),
	}
}

// AddExercise registers an exercise slot the mock will accept entries for.
func (r *repoMock) AddExercise(id, userID int, nome string) {
	r.exercises[id] = mockExerciseInfo{UserID: userID, Nome: nome}
}

func (r *repoMock) ListForExercise(_ context.Context, exerciseID int) ([]Entry, error) {
	var entries []Entry
	for _, e := range r.entries {
		if e.FichaExercicioID == exerciseID {
			entries = append(entries, e)
		}
	}
	sortEntriesDesc(entries)
	return entries, nil
}

func (r *repoMock) ListForUser(_ context.Context, userID int) ([]ExerciseEntry, error) {
	var entries []ExerciseEntry
	for _, e := range r.entries {
		info, ok := r.exercises[e.FichaExercicioID]
		if !ok || info.UserID != userID {
			continue
		}
		entries = append(entries, ExerciseEntry{Entry: e, NomeExercicio: info.Nome})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].DataRegistro.Equal(entries[j].DataRegistro) {
			return entries[i].DataRegistro.After(entries[j].DataRegistro)
		}
		return entries[i].ID > entries[j].ID
	})
	return entries, nil
}

func (r *repoMock) Append(_ context.Context, entry Entry) (*Entry, error) {
	if _, ok := r.exercises[entry.FichaExercicioID]; !ok {
		return nil, ErrExerciseNotFound
	}
	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, entry)
	return &entry, nil
}

func sortEntriesDesc(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].DataRegistro.Equal(entries[j].DataRegistro) {
			return entries[i].DataRegistro.After(entries[j].DataRegistro)
		}
		return entries[i].ID > entries[j].ID
	})
}
