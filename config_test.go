package goGuard

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestValidateCatchesBadConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing authority address", func(c *Config) { c.Authority.Address = common.Address{} }},
		{"missing pause address", func(c *Config) { c.Pause.Address = common.Address{} }},
		{"colliding addresses", func(c *Config) { c.Pause.Address = c.Authority.Address }},
		{"empty store prefix", func(c *Config) { c.Store.RedisPrefix = "" }},
		{"prefix with separator", func(c *Config) { c.Store.RedisPrefix = "gg:prod" }},
		{"audit without buffer", func(c *Config) { c.Audit.Enabled = true; c.Audit.BufferSize = 0 }},
		{"attest without ttl", func(c *Config) { c.Attest.Enabled = true; c.Attest.TTL = 0 }},
		{"attest bad method", func(c *Config) { c.Attest.Enabled = true; c.Attest.SigningMethod = "rs512" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if err := testConfig().Validate(); err != nil {
		t.Fatalf("baseline config should validate: %v", err)
	}
}

func TestCloneConfigIsolatesKeys(t *testing.T) {
	cfg := testConfig()
	cfg.Attest.PrivateKey = []byte("secret")

	clone := cloneConfig(cfg)
	clone.Attest.PrivateKey[0] = 'X'

	if cfg.Attest.PrivateKey[0] != 's' {
		t.Fatal("clone shares key material with the original")
	}
}
