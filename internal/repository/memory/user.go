package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/repository"
)

func (s *Store) RegisterUser(_ context.Context, email, passwordHash string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return 0, fmt.Errorf("registering %s: %w", email, repository.ErrConflict)
		}
	}

	id := s.id("users")
	s.users[id] = &model.User{
		ID:               id,
		Email:            email,
		PasswordHash:     passwordHash,
		RegistrationDate: s.now(),
	}
	return id, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, repository.ErrNotFound)
}

func (s *Store) GetUser(_ context.Context, id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
