package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Load reads a configuration file over the defaults and validates it.
// The format is chosen by extension: .yaml/.yml or .cue.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".cue":
		return ParseCUE(data, path)
	default:
		return Config{}, &ConfigError{Field: "file", Message: fmt.Sprintf("unsupported config extension %q (want .yaml, .yml or .cue)", ext)}
	}
}

// ParseYAML decodes YAML over the defaults. Unknown fields are rejected.
func ParseYAML(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &ConfigError{Field: "yaml", Message: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseCUE unifies the document with the embedded #Config schema, then
// decodes it over the defaults. Schema constraints such as positive
// cadence are enforced by CUE before Validate runs.
func ParseCUE(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	doc := ctx.CompileBytes(data, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return Config{}, &ConfigError{Field: "cue", Message: cueerrors.Details(err, nil)}
	}

	unified := def.Unify(doc)
	if err := unified.Validate(); err != nil {
		return Config{}, &ConfigError{Field: "cue", Message: cueerrors.Details(err, nil)}
	}

	cfg := Default()
	if err := unified.Decode(&cfg); err != nil {
		return Config{}, &ConfigError{Field: "cue", Message: cueerrors.Details(err, nil)}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
