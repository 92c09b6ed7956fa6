// Package config holds runtime settings for rollcall. Values are resolved as
// defaults, then a .env file if present, then environment variables; later
// sources take precedence.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings.
//
// Units: ScanInterval and ScanTimeout are time.Durations. A ScanTimeout of 0
// disables the scan deadline entirely (scanning runs until resolved or
// cancelled).
type Config struct {
	// DatabasePath is the sqlite file backing the record store.
	DatabasePath string

	// ScanInterval is how often the capture loop samples a camera frame.
	ScanInterval time.Duration

	// ScanTimeout optionally bounds a whole scan attempt. 0 means none.
	ScanTimeout time.Duration

	// QRImageSize is the rendered QR side length in pixels.
	QRImageSize int

	// AdminPassword is the administrator login password. It is bcrypt-hashed
	// at service construction; only the hash is kept in memory afterwards.
	AdminPassword string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "rollcall.db"
	c.ScanInterval = 300 * time.Millisecond
	c.ScanTimeout = 0
	c.QRImageSize = 256
	c.AdminPassword = "admin123"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a .env file (if present) and the environment.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()

	// Missing .env is fine; env vars still apply.
	_ = godotenv.Load()

	cfg.DatabasePath = getenv("ROLLCALL_DB_PATH", cfg.DatabasePath)
	cfg.ScanInterval = getenvDuration("ROLLCALL_SCAN_INTERVAL", cfg.ScanInterval)
	cfg.ScanTimeout = getenvDuration("ROLLCALL_SCAN_TIMEOUT", cfg.ScanTimeout)
	cfg.QRImageSize = getenvInt("ROLLCALL_QR_SIZE", cfg.QRImageSize)
	cfg.AdminPassword = getenv("ROLLCALL_ADMIN_PASSWORD", cfg.AdminPassword)

	return cfg
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
