// Package memory provides an in-memory implementation of storage.Store,
// used in tests and for ephemeral runs. Groups are kept serialized so that
// reads and writes deep-copy, matching the whole-record-replace semantics
// of the durable backends.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/junman99/fingrow-sub000/internal/apperrors"
	"github.com/junman99/fingrow-sub000/internal/models"
	"github.com/junman99/fingrow-sub000/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with a mutex-guarded map.
type MemoryStore struct {
	mu     sync.RWMutex
	groups map[string][]byte

	// FailSaves makes every SaveGroup fail, for exercising the
	// persistence-error path in tests.
	FailSaves bool
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{groups: make(map[string][]byte)}
}

// CreateGroup persists a new group, assigning ID and CreatedAt if unset.
func (s *MemoryStore) CreateGroup(_ context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	data, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to encode group: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[group.ID] = data
	return nil
}

// GetGroup retrieves a group by ID.
func (s *MemoryStore) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	data, ok := s.groups[groupID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, apperrors.ErrNotFound)
	}

	group := &models.Group{}
	if err := json.Unmarshal(data, group); err != nil {
		return nil, fmt.Errorf("failed to decode group %s: %w", groupID, err)
	}
	return group, nil
}

// SaveGroup replaces the stored record of an existing group.
func (s *MemoryStore) SaveGroup(_ context.Context, group *models.Group) error {
	if s.FailSaves {
		return fmt.Errorf("save failed (injected)")
	}

	data, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to encode group: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[group.ID]; !ok {
		return fmt.Errorf("group %s: %w", group.ID, apperrors.ErrNotFound)
	}
	s.groups[group.ID] = data
	return nil
}

// DeleteGroup removes a group and its entire history.
func (s *MemoryStore) DeleteGroup(_ context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return fmt.Errorf("group %s: %w", groupID, apperrors.ErrNotFound)
	}
	delete(s.groups, groupID)
	return nil
}

// ListGroups retrieves all groups, oldest first.
func (s *MemoryStore) ListGroups(_ context.Context) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]*models.Group, 0, len(s.groups))
	for id, data := range s.groups {
		group := &models.Group{}
		if err := json.Unmarshal(data, group); err != nil {
			return nil, fmt.Errorf("failed to decode group %s: %w", id, err)
		}
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CreatedAt != groups[j].CreatedAt {
			return groups[i].CreatedAt < groups[j].CreatedAt
		}
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
