package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigPrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "rangefetch.yaml")
	content := "workers: 8\nchunk_size: 2KiB\ntimeout: 45s\nproxy: http://user:pw@proxy.local:3128\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RANGEFETCH_CHUNK_SIZE", "4KiB")

	if err := rootCmd.ParseFlags([]string{"--config", path, "--connections", "12", "-H", "X-Run: 1"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	cfg, err := loadConfig(rootCmd)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Workers != 12 {
		t.Errorf("Workers = %d, want flag value 12", cfg.Workers)
	}
	if cfg.ChunkSize != 4096 {
		t.Errorf("ChunkSize = %d, want env value 4096", cfg.ChunkSize)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %s, want file value 45s", cfg.Timeout)
	}
	if cfg.Headers["X-Run"] != "1" {
		t.Errorf("headers = %v", cfg.Headers)
	}

	httpConfig := buildHTTPConfig(cfg)
	if httpConfig.ProxyURL != "http://proxy.local:3128" || httpConfig.ProxyUsername != "user" || httpConfig.ProxyPassword != "pw" {
		t.Errorf("proxy settings = %q %q %q", httpConfig.ProxyURL, httpConfig.ProxyUsername, httpConfig.ProxyPassword)
	}
	if !httpConfig.LargeBuffers {
		t.Errorf("12 connections should enable large socket buffers")
	}
}
