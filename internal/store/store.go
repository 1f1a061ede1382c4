package store

import "database/sql"

// Store holds all sub-stores used by the sandbox.
type Store struct {
	DB       *sql.DB
	Content  ContentStore
	Requests RequestLogStore
}

// New creates a Store with all sub-stores initialized.
func New(db *sql.DB) *Store {
	return &Store{
		DB:       db,
		Content:  NewSQLiteContentStore(db),
		Requests: NewSQLiteRequestLogStore(db),
	}
}
