package tui

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewSSHServer(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(dir, "keys", "host_key")
	cfg.DBPath = filepath.Join(dir, "replays.db")

	srv, err := NewSSHServer(cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewSSHServer failed: %v", err)
	}
	if srv.store == nil {
		t.Error("replay database was not opened")
	}
	if srv.Addr() != cfg.Address {
		t.Errorf("Addr() = %q, want %q", srv.Addr(), cfg.Address)
	}
	if err := srv.Shutdown(); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestDefaultSSHServerConfigIsTraining(t *testing.T) {
	cfg := DefaultSSHServerConfig()
	if cfg.Sim.Match.RoundSeconds != 0 || !cfg.Sim.Match.RefillHealth {
		t.Errorf("default sessions should use training rules, got %+v", cfg.Sim.Match)
	}
	if err := cfg.Sim.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if _, err := NewModel(Options{Sim: cfg.Sim, P1: cfg.P1, P2: cfg.P2, Dummy: cfg.Dummy, Logger: log.New(io.Discard)}); err != nil {
		t.Errorf("default session cannot start: %v", err)
	}
}
