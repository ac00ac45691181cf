package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
)

var (
	_ repository.CatalogRepository = (*CatalogRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
)

// CatalogRepo datos de referencia en memoria.
type CatalogRepo struct {
	s *Store
}

func (r *CatalogRepo) GetProduct(_ context.Context, id int64) (*entity.Product, error) {
	return lookup(r.s, func(d *state) map[int64]entity.Product { return d.products }, id), nil
}

func (r *CatalogRepo) GetProvider(_ context.Context, id int64) (*entity.Provider, error) {
	return lookup(r.s, func(d *state) map[int64]entity.Provider { return d.providers }, id), nil
}

func (r *CatalogRepo) GetCustomer(_ context.Context, id int64) (*entity.Customer, error) {
	return lookup(r.s, func(d *state) map[int64]entity.Customer { return d.customers }, id), nil
}

func (r *CatalogRepo) GetUser(_ context.Context, id int64) (*entity.User, error) {
	return lookup(r.s, func(d *state) map[int64]entity.User { return d.users }, id), nil
}

func lookup[V any](s *Store, table func(*state) map[int64]V, id int64) *V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := table(&s.data)[id]
	if !ok {
		return nil
	}
	return &v
}

// UserRepo usuarios en memoria.
type UserRepo struct {
	s *Store
}

// GetByEmail búsqueda sin distinguir mayúsculas; nil, nil si no existe.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}
