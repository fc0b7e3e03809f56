package fichas

import (
	"context"
	"sort"
)

type repoMock struct {
	nextID int
	fichas map[int]*Ficha
}

func NewMockFichasRepo() *repoMock {
	return &repoMock{
		nextID: 1,
		fichas: make(map[int]*Ficha),
	}
}

func (r *repoMock) List(_ context.Context, userID int) ([]Ficha, error) {
	var fichas []Ficha
	for _, f := range r.fichas {
		if f.UserID == userID {
			fichas = append(fichas, *f)
		}
	}
	sort.Slice(fichas, func(i, j int) bool {
		return fichas[i].ID < fichas[j].ID
	})
	return fichas, nil
}

func (r *repoMock) Create(_ context.Context, ficha Ficha) (*Ficha, error) {
	ficha.ID = r.nextID
	r.nextID++
	r.fichas[ficha.ID] = &ficha
	return &ficha, nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	if _, ok := r.fichas[id]; !ok {
		return ErrFichaNotFound
	}
	delete(r.fichas, id)
	return nil
}
