// Package memory provides an in-memory user repository.
package memory

import (
	"context"
	"sync"

	"github.com/vaibhavisno-one/movierating/auth/internal/repository"
	"github.com/vaibhavisno-one/movierating/auth/pkg/model"
)

// Repository is a map-backed user repository.
type Repository struct {
	sync.RWMutex
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

// New creates a new in-memory user repository.
func New() *Repository {
	return &Repository{
		byID:    map[string]*model.User{},
		byEmail: map[string]*model.User{},
	}
}

// Create stores a new user.
func (r *Repository) Create(ctx context.Context, user *model.User) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	u := *user
	r.byID[u.ID] = &u
	r.byEmail[u.Email] = &u
	return nil
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.RLock()
	defer r.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// GetByID retrieves a user by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.RLock()
	defer r.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// Update overwrites an existing user.
func (r *Repository) Update(ctx context.Context, user *model.User) error {
	r.Lock()
	defer r.Unlock()
	existing, ok := r.byID[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.byEmail, existing.Email)
	u := *user
	r.byID[u.ID] = &u
	r.byEmail[u.Email] = &u
	return nil
}
