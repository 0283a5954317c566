// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/junman99/fingrow-sub000/internal/models"
)

// Store defines the interface for group persistence.
//
// Each group is persisted as one serialized record keyed by its ID, and
// every mutation replaces the whole record atomically. This abstraction
// allows swapping storage backends (SQLite, in-memory, a synced key-value
// store) without changing the service layer.
type Store interface {
	// CreateGroup persists a new group. The group's ID and CreatedAt
	// fields are populated by the store if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	// Returns an error wrapping apperrors.ErrNotFound if the group does
	// not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// SaveGroup atomically replaces the stored record of an existing
	// group with the given snapshot.
	SaveGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and its entire history.
	DeleteGroup(ctx context.Context, groupID string) error

	// ListGroups retrieves all groups, oldest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// Close releases any resources held by the store.
	Close() error
}
