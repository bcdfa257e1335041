package store

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a point lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Store is the persistence layer shared by every service. All methods
// acquire a pooled connection per statement; there is no shared handle.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store { return &Store{db: db} }
