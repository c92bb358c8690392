package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/tair/commodity-tracker/internal/user/domain"
	"github.com/tair/commodity-tracker/pkg/auth"
)

// DemoPassword is the shared password of the demo accounts
const DemoPassword = "password123"

// MemoryUserRepository keeps users in memory, keyed by id and email
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

// NewMemoryUserRepository creates an empty repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

// NewDemoUserRepository returns a repository holding the admin and regular
// demo accounts, both with DemoPassword
func NewDemoUserRepository() (*MemoryUserRepository, error) {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	repo := NewMemoryUserRepository()
	repo.Add(domain.User{ID: "1", Name: "Admin User", Email: "admin@inventory.com", Role: domain.RoleAdmin, PasswordHash: hash})
	repo.Add(domain.User{ID: "2", Name: "Regular User", Email: "user@inventory.com", Role: domain.RoleUser, PasswordHash: hash})
	return repo, nil
}

// Add stores or replaces a user
func (r *MemoryUserRepository) Add(user domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := user
	u.Email = domain.NormalizeEmail(u.Email)
	r.byID[u.ID] = &u
	r.byEmail[u.Email] = &u
}

// FindByID returns a copy of the user with id
func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// FindByEmail returns a copy of the user with email, compared case-insensitively
func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}
