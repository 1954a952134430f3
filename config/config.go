package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	ErrRootAuthorityUnset = errors.New("config: RootAuthority must be set")
	ErrBadRootAuthority   = errors.New("config: RootAuthority must be a 20-byte hex address")
)

// Config is the node configuration loaded from a TOML file.
type Config struct {
	ListenAddress  string
	DataDir        string
	NetworkName    string
	Env            string
	LogLevel       string
	RootAuthority  string
	RPCAuthToken   string
	RPCRateLimit   int
	RPCRateBurst   int
	// RPCTrustProxyHeaders keys the rate limiter on X-Forwarded-For /
	// X-Real-IP. Leave off unless a trusted reverse proxy sets them.
	RPCTrustProxyHeaders bool
	PausedModules        []string
	MetricsEnabled       bool
}

const defaultConfig = `ListenAddress = "0.0.0.0:8645"
DataDir = "./commerce-data"
NetworkName = "commerce-localnet"
Env = "dev"
LogLevel = "info"
RootAuthority = ""
RPCAuthToken = ""
RPCRateLimit = 20
RPCRateBurst = 40
RPCTrustProxyHeaders = false
PausedModules = []
MetricsEnabled = true
`

// Load reads the configuration at path, writing the default file first when
// none exists.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefault(path); err != nil {
			return nil, err
		}
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func createDefault(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(defaultConfig), 0o644)
}

func (c *Config) applyDefaults() {
	if c.ListenAddress == "" {
		c.ListenAddress = "0.0.0.0:8645"
	}
	if c.DataDir == "" {
		c.DataDir = "./commerce-data"
	}
	if c.NetworkName == "" {
		c.NetworkName = "commerce-localnet"
	}
	if c.Env == "" {
		c.Env = "dev"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.RPCRateLimit <= 0 {
		c.RPCRateLimit = 20
	}
	if c.RPCRateBurst <= 0 {
		c.RPCRateBurst = c.RPCRateLimit * 2
	}
}

// Validate checks the invariants the node cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RootAuthority) == "" {
		return ErrRootAuthorityUnset
	}
	if _, err := c.RootAddress(); err != nil {
		return err
	}
	return nil
}

// RootAddress decodes the configured root authority into an address. An
// all-zero address is rejected alongside malformed input.
func (c *Config) RootAddress() ([20]byte, error) {
	var addr [20]byte
	cleaned := strings.TrimPrefix(strings.TrimSpace(c.RootAuthority), "0x")
	raw, err := hex.DecodeString(cleaned)
	if err != nil || len(raw) != 20 {
		return addr, ErrBadRootAuthority
	}
	copy(addr[:], raw)
	if addr == ([20]byte{}) {
		return addr, ErrBadRootAuthority
	}
	return addr, nil
}

// Paused reports whether a module name appears in the paused list.
func (c *Config) Paused(module string) bool {
	for _, name := range c.PausedModules {
		if strings.EqualFold(name, module) {
			return true
		}
	}
	return false
}
