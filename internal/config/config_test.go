package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "rollcall.db", cfg.DatabasePath)
	assert.Equal(t, 300*time.Millisecond, cfg.ScanInterval)
	assert.Equal(t, time.Duration(0), cfg.ScanTimeout)
	assert.Equal(t, 256, cfg.QRImageSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ROLLCALL_DB_PATH", "/tmp/att.db")
	t.Setenv("ROLLCALL_SCAN_INTERVAL", "150ms")
	t.Setenv("ROLLCALL_SCAN_TIMEOUT", "30s")
	t.Setenv("ROLLCALL_QR_SIZE", "512")

	cfg := LoadConfig()

	assert.Equal(t, "/tmp/att.db", cfg.DatabasePath)
	assert.Equal(t, 150*time.Millisecond, cfg.ScanInterval)
	assert.Equal(t, 30*time.Second, cfg.ScanTimeout)
	assert.Equal(t, 512, cfg.QRImageSize)
}

func TestLoadConfig_BadValuesFallBack(t *testing.T) {
	t.Setenv("ROLLCALL_SCAN_INTERVAL", "soon")
	t.Setenv("ROLLCALL_QR_SIZE", "big")

	cfg := LoadConfig()

	assert.Equal(t, 300*time.Millisecond, cfg.ScanInterval)
	assert.Equal(t, 256, cfg.QRImageSize)
}
