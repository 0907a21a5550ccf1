package repository

import "context"

// StateEntry is one stored value in the state store.
type StateEntry struct {
	Category  string `json:"category"`
	Key       string `json:"key"`
	Value     []byte `json:"value"`
	UpdatedAt string `json:"updated_at"`
}

// StateRepository is a categorized key/value store backing the state
// instructions the workflow emits. Values are opaque JSON documents.
type StateRepository interface {
	Set(ctx context.Context, category, key string, value []byte) error
	Get(ctx context.Context, category, key string) ([]byte, error)
	Delete(ctx context.Context, category, key string) error
	List(ctx context.Context, category string) ([]StateEntry, error)
}
