// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/longopass/longo-tui/internal/util"
)

// State is the persisted identity record.
type State struct {
	UserID     string    `json:"user_id"`
	Kind       Kind      `json:"kind"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Store persists identity state to disk. The state is written to a primary
// file and mirrored to a second location, so losing one of them (a cleared
// state dir, a reinstall that keeps only the config dir) does not lose the
// identity.
type Store struct {
	path       string
	mirrorPath string
}

// NewStore creates a Store rooted at dir, mirrored under mirrorDir.
// mirrorDir may be empty to disable the mirror.
func NewStore(dir, mirrorDir string) *Store {
	s := &Store{path: filepath.Join(dir, "identity.json")}
	if mirrorDir != "" {
		s.mirrorPath = filepath.Join(mirrorDir, "identity.json")
	}
	return s
}

// Load reads the persisted state, trying the mirror when the primary file is
// missing or unreadable.
func (s *Store) Load() (State, error) {
	state, err := readState(s.path)
	if err == nil {
		return state, nil
	}
	if s.mirrorPath != "" {
		if mirrored, mirrorErr := readState(s.mirrorPath); mirrorErr == nil {
			return mirrored, nil
		}
	}
	return State{}, err
}

// Save writes the state to both locations atomically. The mirror write is
// best-effort; only the primary write can fail the call.
func (s *Store) Save(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode identity state: %w", err)
	}

	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write identity state: %w", err)
	}
	if s.mirrorPath != "" {
		_ = util.AtomicWriteFile(s.mirrorPath, data, 0600)
	}
	return nil
}

// Clear removes the persisted state from both locations.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	if s.mirrorPath != "" {
		if err := os.Remove(s.mirrorPath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func readState(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("failed to decode identity state: %w", err)
	}
	return state, nil
}
