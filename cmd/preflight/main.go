// cmd/preflight/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	chat := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	webhook := strings.TrimSpace(os.Getenv("WEBHOOK_URL"))
	addr := strings.TrimSpace(os.Getenv("API_ADDR"))
	dataDir := strings.TrimSpace(os.Getenv("DATA_DIR"))
	configFile := strings.TrimSpace(os.Getenv("CONFIG_FILE"))

	if token == "" && webhook == "" {
		warn("no TELEGRAM_BOT_TOKEN or WEBHOOK_URL — incidents will only be logged, never delivered.")
	}
	if token != "" && chat == "" {
		fail("TELEGRAM_BOT_TOKEN set but TELEGRAM_CHAT_ID empty — Telegram alerts cannot be sent.")
	}
	if token != "" && chat != "" {
		ok("Telegram alerting configured")
	}
	if webhook != "" {
		ok("webhook alerting configured: " + webhook)
	}

	if addr == "" {
		warn("API_ADDR empty; the default bind address will be used.")
	} else {
		ok("API_ADDR=" + addr)
	}

	if dataDir == "" {
		dataDir = "data"
	}
	probe := filepath.Join(dataDir, ".preflight")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		fail("data dir not creatable: " + err.Error())
	}
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		fail("data dir not writable: " + err.Error())
	}
	_ = os.Remove(probe)
	ok("data dir writable: " + dataDir)

	if configFile == "" {
		configFile = "config.json"
	}
	if data, err := os.ReadFile(configFile); err != nil {
		warn("config file missing (" + configFile + ") — a default will be created on startup.")
	} else {
		var cfg struct {
			Endpoints []struct {
				URL string `json:"url"`
			} `json:"endpoints"`
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			fail("config file is not valid JSON: " + err.Error())
		}
		ok(fmt.Sprintf("config file parses: %d endpoint(s)", len(cfg.Endpoints)))
	}

	fmt.Println("preflight passed")
}
