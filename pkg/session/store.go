// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package session tracks per-browser-session state in an embedded BadgerDB.
//
// The only state the browser needs per session is the visit-counted flag:
// the visitor counter must be incremented exactly once per session, and UI
// re-renders of the same session must not double-count. Entries carry a TTL
// so abandoned sessions age out without a cleanup job.
//
// # Storage
//
// Persistent mode (a directory on disk) survives service restarts so a
// restart does not re-count live sessions. In-memory mode is for tests.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// DefaultTTL is how long a session entry lives without being refreshed.
const DefaultTTL = 24 * time.Hour

// State is the stored per-session record.
type State struct {
	// ID is the session identifier, issued as a UUID cookie value.
	ID string `json:"id"`

	// Counted reports whether this session has already incremented the
	// visitor counter.
	Counted bool `json:"counted"`

	// CreatedAt is when the session was first seen.
	CreatedAt time.Time `json:"created_at"`
}

// Config configures the session store.
type Config struct {
	// Dir is the BadgerDB directory. Ignored when InMemory is true.
	Dir string

	// InMemory disables disk persistence. Useful for tests.
	InMemory bool

	// TTL is the session entry lifetime. Defaults to DefaultTTL.
	TTL time.Duration
}

// Store is a Badger-backed session store. Safe for concurrent use.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// Open creates or opens the session store.
func Open(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	// Badger's own logging is noise at this scale.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{db: db, ttl: ttl}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// Get looks up a session. The second return is false when the session is
// unknown or expired.
func (s *Store) Get(id string) (State, bool, error) {
	var state State
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &state)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("get session %s: %w", id, err)
	}
	return state, true, nil
}

// Put stores a session, refreshing its TTL.
func (s *Store) Put(state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", state.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(state.ID), data).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("put session %s: %w", state.ID, err)
	}
	return nil
}
