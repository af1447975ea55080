// Package config loads the YAML or JSON file describing how documents are themed.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kataras/chili-themer/pkg/conversion"
	"github.com/kataras/chili-themer/pkg/vartable"
	"gopkg.in/yaml.v3"
)

// ErrUnknownBackend is returned for an unsupported variables backend.
var ErrUnknownBackend = errors.New("unknown variables backend")

// Variable table backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config describes a themer run.
type Config struct {
	DefaultTheme string             `yaml:"defaultTheme" json:"defaultTheme"`
	ThemeTags    []string           `yaml:"themeTags" json:"themeTags"`
	Conversions  []ConversionConfig `yaml:"conversions" json:"conversions"`
	Variables    VariablesConfig    `yaml:"variables" json:"variables"`
}

// ConversionConfig declares one conversion. Options are decoded by the kind's factory.
type ConversionConfig struct {
	Kind      string         `yaml:"kind" json:"kind"`
	LayerTags []string       `yaml:"layerTags" json:"layerTags"`
	Options   map[string]any `yaml:"options" json:"options"`
}

// VariablesConfig selects the variable table. Shared keeps one in-memory
// table for every document processed by the same Config.
//
// A shared table, memory or redis, stores a value as soon as a frame is
// converted. When a later frame aborts the run the document is discarded but
// the entry stays, so the next document holding that text gets the
// "%name%" placeholder without declaring the variable itself. Conversions of
// a single document always share one table, so Shared only matters for
// long-running callers such as the HTTP server.
type VariablesConfig struct {
	Backend string      `yaml:"backend" json:"backend"`
	Shared  bool        `yaml:"shared" json:"shared"`
	Redis   RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig holds the connection settings of the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// Load reads a configuration file, YAML unless the extension is .json.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the conversion kinds and the variables backend.
func (c *Config) Validate() error {
	for i, cc := range c.Conversions {
		if cc.Kind == "" {
			return fmt.Errorf("conversion %d: kind is required", i)
		}
		if !knownKind(cc.Kind) {
			return fmt.Errorf("conversion %d: %w: %q", i, conversion.ErrUnknownKind, cc.Kind)
		}
	}

	switch c.Variables.Backend {
	case "", BackendMemory, BackendRedis:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Variables.Backend)
	}
}

func knownKind(kind string) bool {
	for _, k := range conversion.Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// Builder creates the conversions of a Config for each processed document.
// The redis table and, when Variables.Shared is set, the memory table are
// created once and reused; otherwise every call to Conversions gets a fresh table.
type Builder struct {
	cfg    *Config
	shared vartable.Table
}

// NewBuilder prepares the variable table selected by cfg.
func NewBuilder(cfg *Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Builder{cfg: cfg}
	switch cfg.Variables.Backend {
	case BackendRedis:
		var opts []vartable.Option
		if cfg.Variables.Redis.Prefix != "" {
			opts = append(opts, vartable.WithPrefix(cfg.Variables.Redis.Prefix))
		}
		r := cfg.Variables.Redis
		b.shared = vartable.NewRedis(r.Addr, r.Password, r.DB, opts...)
	default:
		if cfg.Variables.Shared {
			b.shared = vartable.NewMemory()
		}
	}
	return b, nil
}

// NewBuilderWithTable uses table for every document regardless of the backend setting.
func NewBuilderWithTable(cfg *Config, table vartable.Table) *Builder {
	return &Builder{cfg: cfg, shared: table}
}

// Table returns the shared table, or nil when tables are per document.
func (b *Builder) Table() vartable.Table {
	return b.shared
}

// Conversions builds fresh conversion instances for one document.
func (b *Builder) Conversions() ([]conversion.Conversion, error) {
	table := b.shared
	if table == nil {
		table = vartable.NewMemory()
	}

	out := make([]conversion.Conversion, 0, len(b.cfg.Conversions))
	for i, cc := range b.cfg.Conversions {
		c, err := conversion.New(cc.Kind, cc.LayerTags, cc.Options, table)
		if err != nil {
			return nil, fmt.Errorf("conversion %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Close releases the shared table when it holds a connection.
func (b *Builder) Close() error {
	if closer, ok := b.shared.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
