// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"os"
	"strings"
)

// Environment variables that can carry a real account identifier. The
// dedicated variable wins; the generic suffixes exist for host shells that
// export an id under their own naming scheme.
const realUserIDEnv = "LONGO_REAL_USER_ID"

var scanSuffixes = []string{
	"_USER_ID",
	"_CUSTOMER_ID",
	"_MEMBER_ID",
	"_ACCOUNT_ID",
}

// scanEnvironment looks for a real user id in the process environment.
// Generated session ids are never accepted from the environment; an exported
// leftover session id must not be promoted to a real identity.
func scanEnvironment() (string, bool) {
	if id := strings.TrimSpace(os.Getenv(realUserIDEnv)); id != "" && !looksGenerated(id) {
		return id, true
	}

	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if key == realUserIDEnv || key == "LONGO_USER_ID" {
			// LONGO_USER_ID belongs to the config layer, not the scan.
			continue
		}
		if !hasScanSuffix(key) {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" || looksGenerated(value) {
			continue
		}
		return value, true
	}

	return "", false
}

func hasScanSuffix(key string) bool {
	for _, suffix := range scanSuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

// looksGenerated reports whether an id has the generated session format.
func looksGenerated(id string) bool {
	return strings.HasPrefix(id, "session-user-")
}
