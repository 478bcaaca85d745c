// Package config loads registration settings.
//
// Settings come from built-in defaults, then an optional file, then
// explicit command-line flags. Files may be YAML (.yaml, .yml) or CUE
// (.cue). Either way the file is unified with the CUE definition #Config,
// which rejects unknown fields and out-of-range values before anything runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/beacon/internal/geom"
	"github.com/roach88/beacon/internal/registration"
)

// Schema constrains every configuration source.
const Schema = `
#Config: {
	threshold?:    int & >=1
	orientations?: "proper" | "all"
	workers?:      int & >=1 & <=256
	database?:     string
}
`

// Config holds registration settings.
type Config struct {
	Threshold    int       `json:"threshold"`
	Orientations geom.Mode `json:"orientations"`
	Workers      int       `json:"workers"`
	Database     string    `json:"database,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Threshold:    registration.DefaultThreshold,
		Orientations: geom.ModeProper,
		Workers:      1,
	}
}

// Error reports an invalid configuration source.
type Error struct {
	Path    string // file path, or "" for in-memory settings
	Message string
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("config: %s", e.Message)
}

// fileConfig mirrors Config with every field optional so a file only
// overrides what it names.
type fileConfig struct {
	Threshold    *int    `json:"threshold,omitempty" yaml:"threshold"`
	Orientations *string `json:"orientations,omitempty" yaml:"orientations"`
	Workers      *int    `json:"workers,omitempty" yaml:"workers"`
	Database     *string `json:"database,omitempty" yaml:"database"`
}

// Load returns Default overlaid with the settings in path.
// An empty path returns Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	fc, err := decodeFile(path, data)
	if err != nil {
		return Config{}, err
	}
	cfg.apply(fc)
	return cfg, nil
}

// Validate checks c against the schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	v := ctx.Encode(map[string]any{
		"threshold":    c.Threshold,
		"orientations": string(c.Orientations),
		"workers":      c.Workers,
		"database":     c.Database,
	})
	if _, err := unifySchema(ctx, v); err != nil {
		return &Error{Message: err.Error()}
	}
	return nil
}

// EngineOptions translates c into registration options.
func (c Config) EngineOptions() []registration.Option {
	return []registration.Option{
		registration.WithThreshold(c.Threshold),
		registration.WithOrientations(c.Orientations),
		registration.WithWorkers(c.Workers),
	}
}

func (c *Config) apply(fc fileConfig) {
	if fc.Threshold != nil {
		c.Threshold = *fc.Threshold
	}
	if fc.Orientations != nil {
		c.Orientations = geom.Mode(*fc.Orientations)
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.Database != nil {
		c.Database = *fc.Database
	}
}

func decodeFile(path string, data []byte) (fileConfig, error) {
	ctx := cuecontext.New()

	var v cue.Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw := map[string]any{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fileConfig{}, &Error{Path: path, Message: fmt.Sprintf("invalid YAML: %v", err)}
		}
		v = ctx.Encode(raw)
	case ".cue":
		v = ctx.CompileBytes(data, cue.Filename(path))
	default:
		return fileConfig{}, &Error{Path: path, Message: "unsupported config format (want .yaml, .yml or .cue)"}
	}

	unified, err := unifySchema(ctx, v)
	if err != nil {
		return fileConfig{}, &Error{Path: path, Message: err.Error()}
	}

	var fc fileConfig
	if err := unified.Decode(&fc); err != nil {
		return fileConfig{}, &Error{Path: path, Message: formatCUEError(err)}
	}
	return fc, nil
}

// unifySchema unifies v with #Config and requires a concrete result.
func unifySchema(ctx *cue.Context, v cue.Value) (cue.Value, error) {
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("%s", formatCUEError(err))
	}

	schema := ctx.CompileString(Schema)
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("schema: %s", formatCUEError(err))
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cue.Value{}, fmt.Errorf("%s", formatCUEError(err))
	}
	return unified, nil
}

func formatCUEError(err error) string {
	return strings.TrimSpace(cueerrors.Details(err, nil))
}
