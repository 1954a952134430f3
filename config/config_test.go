package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `ListenAddress = "0.0.0.0:7000"
DataDir = "./data"
NetworkName = "testnet"
Env = "prod"
LogLevel = "debug"
RootAuthority = "0x00000000000000000000000000000000000000aa"
RPCAuthToken = "secret"
RPCRateLimit = 5
RPCRateBurst = 9
RPCTrustProxyHeaders = true
PausedModules = ["escrow"]
MetricsEnabled = false
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddress != "0.0.0.0:7000" || cfg.NetworkName != "testnet" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.RPCRateLimit != 5 || cfg.RPCRateBurst != 9 {
		t.Fatalf("rate limits not parsed: %+v", cfg)
	}
	if !cfg.RPCTrustProxyHeaders {
		t.Fatalf("proxy header trust not parsed: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	root, err := cfg.RootAddress()
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if root[19] != 0xaa {
		t.Fatalf("root not decoded: %x", root)
	}
	if !cfg.Paused("escrow") || cfg.Paused("checkout") {
		t.Fatal("paused list not honoured")
	}
}

func TestLoadCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file not written: %v", err)
	}
	if cfg.ListenAddress == "" || cfg.DataDir == "" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	// The default config carries no root authority and must not validate.
	if err := cfg.Validate(); !errors.Is(err, ErrRootAuthorityUnset) {
		t.Fatalf("expected root-unset rejection, got %v", err)
	}
}

func TestRootAddressValidation(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"short", "0xabcd"},
		{"not hex", "0xzz000000000000000000000000000000000000zz"},
		{"all zero", "0x0000000000000000000000000000000000000000"},
	}
	for _, tc := range cases {
		cfg := &Config{RootAuthority: tc.value}
		if _, err := cfg.RootAddress(); err == nil {
			t.Fatalf("%s: expected rejection", tc.name)
		}
	}
}
