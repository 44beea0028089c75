// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity resolves who the chat user is before any backend call.
//
// Paid plans (premium, premium_plus) require a real account identifier so the
// backend can attach conversations to the account. The free plan falls back to
// a generated session identity that stays stable for the lifetime of the
// installation.
//
// Resolution order:
//  1. cached result from a previous resolve
//  2. explicit Provider injected by the host application
//  3. configured user id
//  4. one-time environment scan
//  5. persisted identity state from a previous run
//  6. generated session identity (free plan only)
package identity

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/longopass/longo-tui/internal/model"
)

// =============================================================================
// TYPES
// =============================================================================

// Kind classifies how an identity was established.
type Kind int

const (
	// KindSession is a locally generated identity for free-plan users.
	KindSession Kind = iota
	// KindReal is an account identifier supplied by the host, config,
	// environment, or a previous run.
	KindReal
)

func (k Kind) String() string {
	if k == KindReal {
		return "real"
	}
	return "session"
}

// Resolved is the outcome of identity resolution.
type Resolved struct {
	UserID string
	Kind   Kind
	Plan   model.Plan
	Level  int
}

// Real reports whether the identity is a real account identifier.
func (r Resolved) Real() bool { return r.Kind == KindReal }

// Provider supplies a real user id from the host application. Implementations
// return ok=false when no account is signed in.
type Provider interface {
	RealUserID() (id string, ok bool)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func() (string, bool)

func (f ProviderFunc) RealUserID() (string, bool) { return f() }

// ErrIdentityRequired is returned when a paid plan is configured but no real
// user id could be resolved. Paid requests must never go out under a
// generated session identity.
var ErrIdentityRequired = errors.New("a real user id is required for paid plans")

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver resolves and persists the chat identity.
// The zero value is not usable; construct with NewResolver.
type Resolver struct {
	provider     Provider
	configUserID string
	level        int
	store        *Store

	mu      sync.Mutex
	cached  *Resolved
	scanned bool
	scanEnv func() (string, bool)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithProvider injects an explicit identity provider. It takes priority over
// every source except a cached result.
func WithProvider(p Provider) Option {
	return func(r *Resolver) { r.provider = p }
}

// WithConfigUserID supplies the user id from the loaded configuration.
func WithConfigUserID(id string) Option {
	return func(r *Resolver) { r.configUserID = strings.TrimSpace(id) }
}

// WithStore sets the persistent identity store. Without a store, resolution
// still works but nothing survives a restart.
func WithStore(s *Store) Option {
	return func(r *Resolver) { r.store = s }
}

// NewResolver creates a Resolver for the given membership level.
func NewResolver(level int, opts ...Option) *Resolver {
	r := &Resolver{
		level:   level,
		scanEnv: scanEnvironment,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve determines the current identity. The result is cached; repeated
// calls return the same identity without re-scanning.
func (r *Resolver) Resolve() (Resolved, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil {
		return *r.cached, nil
	}

	plan := model.PlanFromLevel(r.level)

	if id, ok := r.realID(); ok {
		resolved := Resolved{UserID: id, Kind: KindReal, Plan: plan, Level: r.level}
		r.cached = &resolved
		r.persist(resolved)
		return resolved, nil
	}

	// Paid plans must not proceed on a generated identity.
	if plan.IsPaid() {
		return Resolved{}, fmt.Errorf("%w (plan %s)", ErrIdentityRequired, plan)
	}

	resolved := Resolved{UserID: r.sessionID(), Kind: KindSession, Plan: plan, Level: r.level}
	r.cached = &resolved
	r.persist(resolved)
	return resolved, nil
}

// Reset drops the cached identity so the next Resolve runs the full chain
// again. The persisted state is left alone.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cached = nil
	r.scanned = false
}

// Reconfigure replaces the host-supplied inputs and drops the cached
// resolution, so the next Resolve sees the new user id and level. Called
// when the configuration file changes under a running process.
func (r *Resolver) Reconfigure(configUserID string, level int) {
	r.mu.Lock()
	r.configUserID = strings.TrimSpace(configUserID)
	r.level = level
	r.mu.Unlock()
	r.Reset()
}

// realID tries each real-identity source in priority order.
func (r *Resolver) realID() (string, bool) {
	if r.provider != nil {
		if id, ok := r.provider.RealUserID(); ok && strings.TrimSpace(id) != "" {
			return strings.TrimSpace(id), true
		}
	}

	if r.configUserID != "" {
		return r.configUserID, true
	}

	// The environment is scanned at most once per resolver lifetime.
	if !r.scanned {
		r.scanned = true
		if id, ok := r.scanEnv(); ok {
			return id, true
		}
	}

	if r.store != nil {
		if state, err := r.store.Load(); err == nil && state.Kind == KindReal && state.UserID != "" {
			return state.UserID, true
		}
	}

	return "", false
}

// sessionID returns the persisted session identity, or generates a new one.
// An existing session id is reused so free-tier conversation ownership and the
// local history cache stay consistent across restarts.
func (r *Resolver) sessionID() string {
	if r.store != nil {
		if state, err := r.store.Load(); err == nil && state.Kind == KindSession && state.UserID != "" {
			return state.UserID
		}
	}
	return GenerateSessionID()
}

// persist mirrors the resolved identity to the store. Persistence failures
// are non-fatal; the in-memory identity remains valid for this run.
func (r *Resolver) persist(resolved Resolved) {
	if r.store == nil {
		return
	}
	_ = r.store.Save(State{
		UserID:     resolved.UserID,
		Kind:       resolved.Kind,
		ResolvedAt: time.Now().UTC(),
	})
}

// GenerateSessionID creates a new session identity. The timestamp keeps ids
// sortable; the suffix keeps concurrent first runs from colliding.
func GenerateSessionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("session-user-%d-%s", time.Now().UnixMilli(), suffix)
}
