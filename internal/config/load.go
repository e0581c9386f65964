// Package config loads generation configs from files and server settings
// from the environment.
//
// Generation config files may be CUE, YAML, or JSON. Every format is unified
// with the embedded #GenConfig schema, so unknown fields, wrong types, and
// out-of-range bounds are rejected with a position when one is available.
// Cross-field rules (maxIngredients ≥ minIngredients) are left to
// game.GenConfig.Validate.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/brewlab/internal/game"
)

const schemaFile = "schema.cue"

//go:embed schema.cue
var schemaSource []byte

// Error codes for LoadError.
const (
	ErrCodeRead     = "E101" // File could not be read
	ErrCodeFormat   = "E102" // Unsupported extension or malformed document
	ErrCodeSchema   = "E103" // Document violates #GenConfig
	ErrCodeInvalid  = "E104" // Bounds rejected by GenConfig.Validate
	ErrCodeInternal = "E105" // Embedded schema failed to build
)

// LoadError reports why a config file was rejected.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLoadError reports whether err wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// LoadFile reads a generation config from path. The format is chosen by
// extension: .cue, .yaml, .yml, or .json.
func LoadFile(path string) (game.GenConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return game.GenConfig{}, &LoadError{Code: ErrCodeRead, Message: err.Error()}
	}
	return Load(filepath.Base(path), data)
}

// Load parses a config document; name supplies the extension and the
// filename used in error positions.
func Load(name string, data []byte) (game.GenConfig, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename(schemaFile))
	if err := schema.Err(); err != nil {
		return game.GenConfig{}, &LoadError{Code: ErrCodeInternal, Message: err.Error()}
	}
	def := schema.LookupPath(cue.ParsePath("#GenConfig"))

	var doc cue.Value
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".cue":
		doc = ctx.CompileBytes(data, cue.Filename(name))
		if err := doc.Err(); err != nil {
			return game.GenConfig{}, cueLoadError(ErrCodeFormat, err)
		}
	case ".yaml", ".yml", ".json":
		fields, err := decodeDocument(data)
		if err != nil {
			return game.GenConfig{}, &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("%s: %v", name, err)}
		}
		doc = ctx.Encode(fields)
	default:
		return game.GenConfig{}, &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported config extension %q", ext)}
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return game.GenConfig{}, cueLoadError(ErrCodeSchema, err)
	}
	var cfg game.GenConfig
	if err := unified.Decode(&cfg); err != nil {
		return game.GenConfig{}, cueLoadError(ErrCodeSchema, err)
	}
	if err := cfg.Validate(); err != nil {
		return game.GenConfig{}, &LoadError{Code: ErrCodeInvalid, Message: err.Error()}
	}
	return cfg, nil
}

// decodeDocument reads a YAML or JSON mapping. JSON is parsed as YAML so
// integers stay integers.
func decodeDocument(data []byte) (map[string]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document")
		}
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("document is not a mapping")
	}
	return fields, nil
}

// cueLoadError converts a CUE error into a LoadError, positioned in the
// user's document when any reported position points there.
func cueLoadError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error()}
	var fallback token.Pos
	for _, e := range cueerrors.Errors(err) {
		positions := append([]token.Pos{e.Position()}, e.InputPositions()...)
		for _, pos := range positions {
			if !pos.IsValid() {
				continue
			}
			if pos.Filename() != schemaFile {
				le.Pos = pos
				return le
			}
			if !fallback.IsValid() {
				fallback = pos
			}
		}
	}
	le.Pos = fallback
	return le
}
