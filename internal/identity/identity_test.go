// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/longopass/longo-tui/internal/model"
)

func noEnv() (string, bool) { return "", false }

func newTestResolver(level int, opts ...Option) *Resolver {
	r := NewResolver(level, opts...)
	r.scanEnv = noEnv
	return r
}

// =============================================================================
// RESOLUTION ORDER
// =============================================================================

func TestProviderWinsOverConfig(t *testing.T) {
	r := newTestResolver(2,
		WithProvider(ProviderFunc(func() (string, bool) { return "provider-id", true })),
		WithConfigUserID("config-id"),
	)

	resolved, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.UserID != "provider-id" {
		t.Errorf("UserID = %q, want provider-id", resolved.UserID)
	}
	if !resolved.Real() {
		t.Error("provider identity should be real")
	}
}

func TestConfigUserID(t *testing.T) {
	r := newTestResolver(3, WithConfigUserID("  acct-77  "))

	resolved, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.UserID != "acct-77" {
		t.Errorf("UserID = %q, want acct-77 (trimmed)", resolved.UserID)
	}
	if resolved.Plan != model.PlanPremiumPlus {
		t.Errorf("Plan = %v, want premium_plus", resolved.Plan)
	}
}

func TestPaidPlanRequiresRealIdentity(t *testing.T) {
	for _, level := range []int{2, 3} {
		r := newTestResolver(level)
		_, err := r.Resolve()
		if !errors.Is(err, ErrIdentityRequired) {
			t.Errorf("level %d: Resolve() error = %v, want ErrIdentityRequired", level, err)
		}
	}
}

func TestFreePlanGetsSessionIdentity(t *testing.T) {
	r := newTestResolver(1)

	resolved, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Real() {
		t.Error("free plan without a real id should get a session identity")
	}
	if !strings.HasPrefix(resolved.UserID, "session-user-") {
		t.Errorf("UserID = %q, want session-user- prefix", resolved.UserID)
	}
	if resolved.Plan != model.PlanFree {
		t.Errorf("Plan = %v, want free", resolved.Plan)
	}
}

func TestResolveIsCached(t *testing.T) {
	r := newTestResolver(0)

	first, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if first.UserID != second.UserID {
		t.Errorf("identity changed between resolves: %q then %q", first.UserID, second.UserID)
	}
}

func TestProviderNotSignedIn(t *testing.T) {
	r := newTestResolver(1,
		WithProvider(ProviderFunc(func() (string, bool) { return "", false })),
	)

	resolved, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Real() {
		t.Error("not-signed-in provider should fall through to session identity")
	}
}

// =============================================================================
// SESSION ID FORMAT
// =============================================================================

func TestGenerateSessionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateSessionID()
		if !strings.HasPrefix(id, "session-user-") {
			t.Fatalf("id %q missing session-user- prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate session id generated: %q", id)
		}
		seen[id] = true
	}
}

func TestLooksGenerated(t *testing.T) {
	if !looksGenerated("session-user-1714000000000-a1b2c3d4") {
		t.Error("generated id not recognized")
	}
	if looksGenerated("acct-77") {
		t.Error("real id misclassified as generated")
	}
}

// =============================================================================
// ENVIRONMENT SCAN
// =============================================================================

func TestScanPrefersDedicatedVariable(t *testing.T) {
	t.Setenv(realUserIDEnv, "real-from-env")
	t.Setenv("SHOP_CUSTOMER_ID", "other")

	id, ok := scanEnvironment()
	if !ok || id != "real-from-env" {
		t.Errorf("scanEnvironment() = %q, %v, want real-from-env", id, ok)
	}
}

func TestScanRejectsGeneratedIDs(t *testing.T) {
	t.Setenv(realUserIDEnv, "session-user-1714000000000-a1b2c3d4")

	if id, ok := scanEnvironment(); ok && strings.HasPrefix(id, "session-user-") {
		t.Errorf("scan promoted a generated id: %q", id)
	}
}

func TestScanSuffixMatch(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"SHOP_CUSTOMER_ID", true},
		{"ACME_USER_ID", true},
		{"CLUB_MEMBER_ID", true},
		{"BANK_ACCOUNT_ID", true},
		{"PATH", false},
		{"USER", false},
	}
	for _, tt := range tests {
		if got := hasScanSuffix(tt.key); got != tt.want {
			t.Errorf("hasScanSuffix(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	mirror := t.TempDir()
	store := NewStore(dir, mirror)

	saved := State{UserID: "acct-5", Kind: KindReal}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.UserID != "acct-5" || loaded.Kind != KindReal {
		t.Errorf("Load() = %+v, want saved state back", loaded)
	}
}

func TestStoreFallsBackToMirror(t *testing.T) {
	dir := t.TempDir()
	mirror := t.TempDir()
	store := NewStore(dir, mirror)

	if err := store.Save(State{UserID: "acct-9", Kind: KindReal}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Simulate losing the primary state file.
	if err := NewStore(dir, "").Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() after primary loss error = %v", err)
	}
	if loaded.UserID != "acct-9" {
		t.Errorf("mirror fallback returned %q, want acct-9", loaded.UserID)
	}
}

func TestSessionIdentityStableAcrossResolvers(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "")

	first, err := newTestResolver(1, WithStore(store)).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	second, err := newTestResolver(1, WithStore(store)).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if first.UserID != second.UserID {
		t.Errorf("session id not stable across runs: %q then %q", first.UserID, second.UserID)
	}
}

func TestStoredRealIdentityReused(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "")
	if err := store.Save(State{UserID: "acct-3", Kind: KindReal}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Paid plan with no provider or config id: the stored real id satisfies it.
	resolved, err := newTestResolver(2, WithStore(store)).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.UserID != "acct-3" || !resolved.Real() {
		t.Errorf("Resolve() = %+v, want stored real identity", resolved)
	}
}

func TestReconfigureAppliesNewInputs(t *testing.T) {
	r := newTestResolver(1)

	first, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if first.Kind != KindSession || first.Plan != model.PlanFree {
		t.Fatalf("Resolve() = %+v, want free session identity", first)
	}

	// Config edit grants a real id and a premium level.
	r.Reconfigure("  member-7  ", 2)

	second, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() after Reconfigure error = %v", err)
	}
	if second.UserID != "member-7" || !second.Real() {
		t.Errorf("UserID = %q (real=%v), want member-7 real identity", second.UserID, second.Real())
	}
	if second.Plan != model.PlanPremium || second.Level != 2 {
		t.Errorf("Plan/Level = %v/%d, want premium/2", second.Plan, second.Level)
	}
}

func TestReconfigureDropsCachedIdentity(t *testing.T) {
	r := newTestResolver(2, WithConfigUserID("acct-1"))

	first, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if first.UserID != "acct-1" {
		t.Fatalf("UserID = %q, want acct-1", first.UserID)
	}

	r.Reconfigure("acct-2", 2)

	second, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() after Reconfigure error = %v", err)
	}
	if second.UserID != "acct-2" {
		t.Errorf("UserID = %q, want acct-2 after Reconfigure", second.UserID)
	}
}
