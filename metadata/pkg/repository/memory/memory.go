package memory

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"

	"github.com/vaibhavisno-one/movierating/metadata/pkg/repository"
	"github.com/vaibhavisno-one/movierating/metadata/pkg/model"
)

// Repository defines a memory movie detail cache.
type Repository struct {
	sync.RWMutex
	data map[int]*model.MovieDetail
}

const tracerID = "metadata-repository-memory"

// New creates a new memory repository.
func New() *Repository {
	return &Repository{data: map[int]*model.MovieDetail{}}
}

// Get retrieves the cached movie detail for a movie id.
func (r *Repository) Get(ctx context.Context, id int) (*model.MovieDetail, error) {
	r.RLock()
	defer r.RUnlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/Get")
	defer span.End()

	m, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

// Put caches the movie detail for a given movie id.
func (r *Repository) Put(ctx context.Context, id int, detail *model.MovieDetail) error {
	r.Lock()
	defer r.Unlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/Put")
	defer span.End()

	r.data[id] = detail
	return nil
}
