package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-apimerge/pkg/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "/openapi", cfg.Server.RoutePath)
	assert.Equal(t, "/docs", cfg.Server.DocsPath)
	assert.False(t, cfg.Output.Sanitize)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.True(t, cfg.Parser.Validate)
	assert.Equal(t, 10*time.Second, cfg.Loader.Timeout)
	assert.NoError(t, cfg.Validate())
	assert.Nil(t, cfg.DefaultInfo())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apimerge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
modules:
  - name: orders
    source: ./orders.yaml
    contextRoot: /orders
  - name: customers
    source: https://example.com/customers/openapi.json
    contextRoot: /customers
output:
  path: merged.json
  format: json
loader:
  allowHTTP: true
  timeout: 3s
parser:
  validate: false
info:
  title: Shop
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Modules, 2)
	assert.Equal(t, ModuleConfig{Name: "orders", Source: "./orders.yaml", ContextRoot: "/orders"}, cfg.Modules[0])
	assert.Equal(t, "merged.json", cfg.Output.Path)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Loader.AllowHTTP)
	assert.Equal(t, 3*time.Second, cfg.Loader.Timeout)
	assert.False(t, cfg.Parser.Validate)
	assert.Equal(t, ":8080", cfg.Server.Addr, "defaults fill unset keys")
	assert.Equal(t, model.Object{"title": "Shop", "version": "1.0.0"}, cfg.DefaultInfo())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APIMERGE_SERVER_ADDR", ":9999")
	t.Setenv("APIMERGE_LOG_LEVEL", "warn")

	dir := t.TempDir()
	path := filepath.Join(dir, "apimerge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7000\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "missing module name", mutate: func(c *Config) { c.Modules = []ModuleConfig{{Source: "a.yaml"}} }, field: "modules[0].name"},
		{name: "missing module source", mutate: func(c *Config) { c.Modules = []ModuleConfig{{Name: "a"}} }, field: "modules[0].source"},
		{name: "duplicate module", mutate: func(c *Config) {
			c.Modules = []ModuleConfig{{Name: "a", Source: "a.yaml"}, {Name: "a", Source: "b.yaml"}}
		}, field: "modules[1].name"},
		{name: "bad format", mutate: func(c *Config) { c.Output.Format = "xml" }, field: "output.format"},
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = "" }, field: "server.addr"},
		{name: "negative timeout", mutate: func(c *Config) { c.Loader.Timeout = -time.Second }, field: "loader.timeout"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, field: "log.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr), "expected *Error, got %v", err)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestParseModule(t *testing.T) {
	cases := map[string]ModuleConfig{
		"orders=./orders.yaml@/orders":  {Name: "orders", Source: "./orders.yaml", ContextRoot: "/orders"},
		"orders=./orders.yaml":          {Name: "orders", Source: "./orders.yaml"},
		"specs/customers.json@/c":       {Name: "customers", Source: "specs/customers.json", ContextRoot: "/c"},
		"api=https://u@host/spec.yaml":  {Name: "api", Source: "https://u@host/spec.yaml"},
		"https://host/spec.yaml?v=2@/v": {Name: "spec", Source: "https://host/spec.yaml?v=2", ContextRoot: "/v"},
	}
	for input, want := range cases {
		got, err := ParseModule(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, bad := range []string{"", "  ", "name=", "name=@/root"} {
		_, err := ParseModule(bad)
		assert.Error(t, err, bad)
	}
}
