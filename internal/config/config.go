// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server, the journal, and
// catalog seeding.
type Config struct {
	HTTPAddr             string
	ShutdownTimeout      time.Duration
	JournalBuffer        int
	JournalHighWatermark int
	SeedInitialStock     int64
	RunDemo              bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:      durenvs("SHUTDOWN_TIMEOUT", 15),
		JournalBuffer:        atoienv("JOURNAL_BUFFER", 128),
		JournalHighWatermark: atoienv("JOURNAL_HIGH_WATERMARK", 5000),
		SeedInitialStock:     int64(atoienv("SEED_INITIAL_STOCK", 50)),
		RunDemo:              boolenv("RUN_DEMO", true),
	}
}
