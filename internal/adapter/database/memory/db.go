// Package memory keeps server state in process memory. Everything is lost on
// restart.
package memory

import (
	"sync"

	"serenity/internal/core/history"
)

type DB struct {
	mu      sync.RWMutex
	users   []userRecord
	todos   []todoRecord
	history map[string]*history.Log
}

func New() *DB {
	return &DB{
		history: map[string]*history.Log{},
	}
}

// Reset drops every record. Used by tests.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.users = nil
	db.todos = nil
	db.history = map[string]*history.Log{}
}
