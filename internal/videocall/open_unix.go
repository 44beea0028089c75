// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows
// +build !windows

package videocall

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openBrowser opens a URL in the default browser on Unix/macOS.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "darwin" {
		cmd = exec.Command("open", url)
	} else {
		if _, err := exec.LookPath("xdg-open"); err != nil {
			return fmt.Errorf("no browser opener found, open manually: %s", url)
		}
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	// The browser outlives us; do not wait for it.
	go cmd.Wait()
	return nil
}
