package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-apimerge/pkg/model"
)

// EnvPrefix namespaces environment overrides, e.g. APIMERGE_SERVER_ADDR.
const EnvPrefix = "APIMERGE"

// Config is the apimerge configuration file.
type Config struct {
	Modules []ModuleConfig `mapstructure:"modules"`
	Output  OutputConfig   `mapstructure:"output"`
	Server  ServerConfig   `mapstructure:"server"`
	Loader  LoaderConfig   `mapstructure:"loader"`
	Parser  ParserConfig   `mapstructure:"parser"`
	Info    InfoConfig     `mapstructure:"info"`
	Log     LogConfig      `mapstructure:"log"`
}

// ModuleConfig points at one module's OpenAPI document.
type ModuleConfig struct {
	Name        string `mapstructure:"name"`
	Source      string `mapstructure:"source"`
	ContextRoot string `mapstructure:"contextRoot"`
}

type OutputConfig struct {
	// Path is the merged document destination; empty writes to stdout.
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
	// Sanitize strips unsafe markup from descriptions, for the written
	// document and the served one.
	Sanitize bool `mapstructure:"sanitize"`
}

type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	RoutePath string `mapstructure:"routePath"`
	// DocsPath serves an HTML reference page; empty disables it.
	DocsPath string `mapstructure:"docsPath"`
}

type LoaderConfig struct {
	AllowHTTP bool          `mapstructure:"allowHTTP"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxBytes  int64         `mapstructure:"maxBytes"`
}

type ParserConfig struct {
	Validate bool `mapstructure:"validate"`
}

// InfoConfig is the info object used when modules disagree on theirs.
type InfoConfig struct {
	Title       string `mapstructure:"title"`
	Version     string `mapstructure:"version"`
	Description string `mapstructure:"description"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Format: string(model.FormatYAML)},
		Server: ServerConfig{Addr: ":8080", RoutePath: "/openapi", DocsPath: "/docs"},
		Loader: LoaderConfig{Timeout: 10 * time.Second},
		Parser: ParserConfig{Validate: true},
		Log:    LogConfig{Level: "info"},
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("output.path", def.Output.Path)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.sanitize", def.Output.Sanitize)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.routePath", def.Server.RoutePath)
	v.SetDefault("server.docsPath", def.Server.DocsPath)
	v.SetDefault("loader.allowHTTP", def.Loader.AllowHTTP)
	v.SetDefault("loader.timeout", def.Loader.Timeout)
	v.SetDefault("loader.maxBytes", def.Loader.MaxBytes)
	v.SetDefault("parser.validate", def.Parser.Validate)
	v.SetDefault("info.title", "")
	v.SetDefault("info.version", "")
	v.SetDefault("info.description", "")
	v.SetDefault("log.level", def.Log.Level)
}

// Load reads the configuration. An explicit path must exist; otherwise
// apimerge.{yaml,json,toml} is looked up in the working directory and
// defaults apply when it is absent. Environment variables prefixed with
// APIMERGE_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("apimerge")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Modules))
	for i, module := range c.Modules {
		field := fmt.Sprintf("modules[%d]", i)
		if strings.TrimSpace(module.Name) == "" {
			return &Error{Field: field + ".name", Message: "name is required"}
		}
		if seen[module.Name] {
			return &Error{Field: field + ".name", Message: fmt.Sprintf("duplicate module %q", module.Name)}
		}
		seen[module.Name] = true
		if strings.TrimSpace(module.Source) == "" {
			return &Error{Field: field + ".source", Message: "source is required"}
		}
	}
	if _, err := model.ParseFormat(c.Output.Format); err != nil {
		return &Error{Field: "output.format", Message: err.Error()}
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return &Error{Field: "server.addr", Message: "address is required"}
	}
	if c.Loader.Timeout < 0 {
		return &Error{Field: "loader.timeout", Message: "must not be negative"}
	}
	if c.Loader.MaxBytes < 0 {
		return &Error{Field: "loader.maxBytes", Message: "must not be negative"}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return &Error{Field: "log.level", Message: err.Error()}
	}
	return nil
}

// DefaultInfo renders the configured info object, or nil when no title is
// set.
func (c *Config) DefaultInfo() model.Object {
	if strings.TrimSpace(c.Info.Title) == "" {
		return nil
	}
	version := c.Info.Version
	if version == "" {
		version = "1.0.0"
	}
	info := model.Object{"title": c.Info.Title, "version": version}
	if c.Info.Description != "" {
		info["description"] = c.Info.Description
	}
	return info
}

// ParseModule reads the command line form name=source@/contextRoot. The name
// defaults to the source's base name and the context root is optional.
func ParseModule(raw string) (ModuleConfig, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ModuleConfig{}, &Error{Field: "module", Message: "empty module"}
	}

	var module ModuleConfig
	rest := raw
	if name, source, ok := strings.Cut(raw, "="); ok && !strings.ContainsAny(name, "/:") {
		module.Name = strings.TrimSpace(name)
		rest = source
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 && strings.HasPrefix(rest[at+1:], "/") {
		module.ContextRoot = rest[at+1:]
		rest = rest[:at]
	}
	module.Source = strings.TrimSpace(rest)
	if module.Source == "" {
		return ModuleConfig{}, &Error{Field: "module", Message: fmt.Sprintf("missing source in %q", raw)}
	}
	if module.Name == "" {
		base := filepath.Base(module.Source)
		module.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return module, nil
}

// Error describes an invalid configuration field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config: invalid " + e.Field + ": " + e.Message
}
