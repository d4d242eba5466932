package store

import (
	"context"

	"hotlist/internal/database"
)

// SQLiteBackend stores sections as rows of the kv_store table.
type SQLiteBackend struct {
	db *database.DB
}

// NewSQLiteBackend opens (and migrates) the database at path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := database.NewDB(database.Config{DatabasePath: path})
	if err != nil {
		return nil, err
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return b.db.Repository.Get(ctx, key)
}

func (b *SQLiteBackend) Put(ctx context.Context, key string, value []byte) error {
	return b.db.Repository.Put(ctx, key, value)
}

// Close releases the database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
