// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface. Each group is one row holding the serialized
// group record; every save replaces the record wholesale.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/junman99/fingrow-sub000/internal/apperrors"
	"github.com/junman99/fingrow-sub000/internal/models"
	"github.com/junman99/fingrow-sub000/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateGroup persists a new group, assigning ID and CreatedAt if unset.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
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

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO groups (id, name, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Name, string(data), group.CreatedAt, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM groups WHERE id = ?", groupID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group := &models.Group{}
	if err := json.Unmarshal([]byte(data), group); err != nil {
		return nil, fmt.Errorf("failed to decode group %s: %w", groupID, err)
	}
	return group, nil
}

// SaveGroup replaces the stored record of an existing group.
func (s *SQLiteStore) SaveGroup(ctx context.Context, group *models.Group) error {
	data, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to encode group: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, data = ?, updated_at = ? WHERE id = ?",
		group.Name, string(data), time.Now().Unix(), group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("group %s: %w", group.ID, apperrors.ErrNotFound)
	}
	return nil
}

// DeleteGroup removes a group and its entire history.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("group %s: %w", groupID, apperrors.ErrNotFound)
	}
	return nil
}

// ListGroups retrieves all groups, oldest first.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT data FROM groups ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group := &models.Group{}
		if err := json.Unmarshal([]byte(data), group); err != nil {
			return nil, fmt.Errorf("failed to decode group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}
