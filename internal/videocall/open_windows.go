// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows
// +build windows

package videocall

import (
	"fmt"
	"os/exec"
	"syscall"
)

// CREATE_NO_WINDOW prevents a console window from being created
const CREATE_NO_WINDOW = 0x08000000

// openBrowser opens a URL in the default browser on Windows.
func openBrowser(url string) error {
	cmd := exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: CREATE_NO_WINDOW}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	go cmd.Wait()
	return nil
}
