// Package memory is an in-process insureAuth.UserStore.
package memory

import (
	"context"
	"sync"

	insureAuth "github.com/MrEthical07/insureAuth"
	"github.com/google/uuid"
)

// Store keeps identities in memory. The zero value is not usable; call New.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]insureAuth.Identity
	byEmail map[string]string
}

func New() *Store {
	return &Store{
		byID:    make(map[string]insureAuth.Identity),
		byEmail: make(map[string]string),
	}
}

func (s *Store) FindByEmail(_ context.Context, email string) (*insureAuth.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, insureAuth.ErrUserNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *Store) FindByID(_ context.Context, id string) (*insureAuth.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, insureAuth.ErrUserNotFound
	}
	return &u, nil
}

// Insert assigns a random UUID and stores u.
func (s *Store) Insert(_ context.Context, u insureAuth.Identity) (*insureAuth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[u.Email]; exists {
		return nil, insureAuth.ErrAccountExists
	}

	u.ID = uuid.NewString()
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u.ID
	return &u, nil
}

func (s *Store) UpdateSecret(_ context.Context, id, secretHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return insureAuth.ErrUserNotFound
	}
	u.SecretHash = secretHash
	s.byID[id] = u
	return nil
}

func (s *Store) UpdateProfile(_ context.Context, id string, p insureAuth.ProfileUpdate) (*insureAuth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, insureAuth.ErrUserNotFound
	}
	if owner, taken := s.byEmail[p.Email]; taken && owner != id {
		return nil, insureAuth.ErrAccountExists
	}

	delete(s.byEmail, u.Email)
	u.Name = p.Name
	u.Email = p.Email
	u.Age = p.Age
	u.Income = p.Income
	s.byID[id] = u
	s.byEmail[u.Email] = id
	return &u, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return insureAuth.ErrUserNotFound
	}
	delete(s.byID, id)
	delete(s.byEmail, u.Email)
	return nil
}

// Len reports the number of stored identities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

var _ insureAuth.UserStore = (*Store)(nil)
