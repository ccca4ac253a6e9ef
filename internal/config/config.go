package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr       string // API bind address
	LogDir     string // logs directory
	DataDir    string // root for checks/ and incidents/ JSONL files
	ConfigFile string // endpoint list JSON file

	CheckInterval     time.Duration // scheduled cycle interval
	HTTPTimeout       time.Duration // default probe timeout
	DegradedThreshold time.Duration // default slow-response cutoff
	RetryAttempts     int           // probes before accepting a down result
	RetryBackoff      time.Duration
	MaxConcurrent     int // parallel probes per cycle

	TelegramBotToken string
	TelegramChatID   string
	WebhookURL       string

	AdminAPIKeys []string // empty means config routes are open (local dev)
	RatePerMin   int
	RateBurst    int
}

func FromEnv() Config {
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = ":8081"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.json"
	}

	interval := 60 * time.Second
	if v := os.Getenv("CHECK_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = time.Duration(n) * time.Second
		}
	}

	timeout := 10 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}

	threshold := 3 * time.Second
	if v := os.Getenv("DEGRADED_THRESHOLD_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			threshold = time.Duration(ms) * time.Millisecond
		}
	}

	retryAttempts := 1
	if v := os.Getenv("RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			retryAttempts = n
		}
	}

	retryBackoff := 300 * time.Millisecond
	if v := os.Getenv("RETRY_BACKOFF_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			retryBackoff = time.Duration(ms) * time.Millisecond
		}
	}

	maxConcurrent := 8
	if v := os.Getenv("MAX_CONCURRENT_CHECKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxConcurrent = n
		}
	}

	ratePerMin := 120
	if v := os.Getenv("RATE_PER_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			ratePerMin = n
		}
	}

	rateBurst := 60
	if v := os.Getenv("RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateBurst = n
		}
	}

	return Config{
		Addr:              addr,
		LogDir:            logDir,
		DataDir:           dataDir,
		ConfigFile:        configFile,
		CheckInterval:     interval,
		HTTPTimeout:       timeout,
		DegradedThreshold: threshold,
		RetryAttempts:     retryAttempts,
		RetryBackoff:      retryBackoff,
		MaxConcurrent:     maxConcurrent,
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    os.Getenv("TELEGRAM_CHAT_ID"),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		AdminAPIKeys:      splitKeys(os.Getenv("ADMIN_API_KEYS")),
		RatePerMin:        ratePerMin,
		RateBurst:         rateBurst,
	}
}

func splitKeys(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
