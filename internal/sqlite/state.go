package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/repository"
)

// StateRepository implements repository.StateRepository for SQLite
type StateRepository struct {
	db *DB
}

// NewStateRepository creates a new StateRepository
func NewStateRepository(db *DB) *StateRepository {
	return &StateRepository{db: db}
}

// Set writes value under (category, key), replacing any existing entry
func (r *StateRepository) Set(ctx context.Context, category, key string, value []byte) error {
	if category == "" || key == "" {
		return repository.ErrInvalidInput
	}

	query := `
		INSERT INTO state (category, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(category, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, category, key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set state: %w", err)
	}

	return nil
}

// Get retrieves the value stored under (category, key)
func (r *StateRepository) Get(ctx context.Context, category, key string) ([]byte, error) {
	query := `
		SELECT value
		FROM state
		WHERE category = ? AND key = ?
	`

	var value string
	err := r.db.QueryRowContext(ctx, query, category, key).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	return []byte(value), nil
}

// Delete removes the entry under (category, key)
func (r *StateRepository) Delete(ctx context.Context, category, key string) error {
	query := `DELETE FROM state WHERE category = ? AND key = ?`

	res, err := r.db.ExecContext(ctx, query, category, key)
	if err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all entries in a category, most recently updated first
func (r *StateRepository) List(ctx context.Context, category string) ([]repository.StateEntry, error) {
	query := `
		SELECT category, key, value, updated_at
		FROM state
		WHERE category = ?
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list state: %w", err)
	}
	defer rows.Close()

	var entries []repository.StateEntry
	for rows.Next() {
		var entry repository.StateEntry
		var value string
		if err := rows.Scan(&entry.Category, &entry.Key, &value, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan state entry: %w", err)
		}
		entry.Value = []byte(value)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list state: %w", err)
	}

	return entries, nil
}
