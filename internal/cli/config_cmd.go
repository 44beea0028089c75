// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handler.
//
// Handles "longo config" with the show, path and set subcommands. Values
// written with "set" are validated before saving; the password is never
// echoed back.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/longopass/longo-tui/internal/api"
	"github.com/longopass/longo-tui/internal/config"
	"github.com/longopass/longo-tui/internal/ui/styles"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) {
	if err := runConfig(args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Hata:")+" "+err.Error())
		os.Exit(1)
	}
}

func runConfig(args Args) error {
	switch args.Subcommand {
	case "show":
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(infoStyle.Render("Yapılandırma: ") + path)
		fmt.Println(cfg.String())
		fmt.Println(backendHealthLine(cfg))
		return nil

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return errors.New("kullanım: longo config set <anahtar> <değer>")
		}
		return setConfigValue(args.ConfigKey, args.ConfigVal)

	default:
		return fmt.Errorf("bilinmeyen alt komut: %s (show, path, set)", args.Subcommand)
	}
}

// healthCheckTimeout bounds the backend check on "config show".
const healthCheckTimeout = 5 * time.Second

// backendHealthLine calls the backend health endpoint and renders one
// status line.
func backendHealthLine(cfg *config.Config) string {
	client := api.NewClient(&api.ClientConfig{
		BaseURL:  cfg.API.BaseURL,
		Username: cfg.API.Username,
		Password: cfg.API.Password,
		Timeout:  healthCheckTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	if err := client.CheckReachable(ctx); err != nil {
		return styles.RenderError("Sunucuya erişilemiyor: " + cfg.API.BaseURL)
	}
	return styles.RenderSuccess("Sunucu erişilebilir: " + cfg.API.BaseURL)
}

// setConfigValue loads, mutates, validates and saves the configuration.
func setConfigValue(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := applyConfigKey(cfg, key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("geçersiz değer: %w", err)
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	shown := value
	if key == "api.password" {
		shown = "[REDACTED]"
	}
	fmt.Printf("%s = %s\n", key, shown)
	return nil
}

// applyConfigKey writes one dotted key into the config struct.
func applyConfigKey(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "api.url", "api.base_url":
		cfg.API.BaseURL = value
	case "api.username":
		cfg.API.Username = value
	case "api.password":
		cfg.API.Password = value
	case "api.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("api.timeout_secs sayı olmalı: %q", value)
		}
		cfg.API.TimeoutSecs = n
	case "user.id":
		cfg.User.ID = value
	case "user.level":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("user.level sayı olmalı: %q", value)
		}
		cfg.User.Level = n
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.compact":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("ui.compact true/false olmalı: %q", value)
		}
		cfg.UI.CompactMode = b
	case "history.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("history.enabled true/false olmalı: %q", value)
		}
		cfg.History.Enabled = b
	case "history.max_entries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("history.max_entries sayı olmalı: %q", value)
		}
		cfg.History.MaxEntries = n
	default:
		return fmt.Errorf("bilinmeyen anahtar: %s", key)
	}
	return nil
}
