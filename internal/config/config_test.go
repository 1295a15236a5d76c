package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvLogFile, "")
	t.Setenv(EnvLogLevel, "")
	dir := t.TempDir()

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %s, got %s", dir, cfg.Dir)
	}
	if cfg.Addr != DefaultAddr {
		t.Errorf("expected addr %s, got %s", DefaultAddr, cfg.Addr)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("expected level %s, got %s", DefaultLogLevel, cfg.LogLevel)
	}
	if cfg.LogFile != "" {
		t.Errorf("expected no log file, got %s", cfg.LogFile)
	}
}

func TestNew_EnvFile(t *testing.T) {
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvLogFile, "")
	t.Setenv(EnvLogLevel, "")
	dir := t.TempDir()

	content := "TASKMASTER_ADDR=0.0.0.0:9090\nTASKMASTER_LOG_FILE=logs/taskmaster.log\nTASKMASTER_LOG_LEVEL=debug\n"
	if err := os.WriteFile(filepath.Join(dir, EnvFile), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9090" {
		t.Errorf("expected addr from .env, got %s", cfg.Addr)
	}
	if want := filepath.Join(dir, "logs", "taskmaster.log"); cfg.LogFile != want {
		t.Errorf("expected log file %s, got %s", want, cfg.LogFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected level debug, got %s", cfg.LogLevel)
	}
}

func TestNew_ProcessEnvWins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, EnvFile), []byte("TASKMASTER_ADDR=file:1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAddr, "env:2")

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != "env:2" {
		t.Errorf("expected process env to win, got %s", cfg.Addr)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected dir %s", got)
	}
}
