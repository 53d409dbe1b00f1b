package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString(simSchemaURL, simSchema)
	})
	return schema, schemaErr
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return decode(path, b, out)
}

// decode validates raw YAML against the schema, then decodes it into out.
func decode(name string, b []byte, out any) error {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if doc != nil {
		// Round-trip through JSON so the validator sees JSON-shaped values.
		jb, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		var jv any
		if err := json.Unmarshal(jb, &jv); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		s, err := compiledSchema()
		if err != nil {
			return err
		}
		if err := s.Validate(jv); err != nil {
			return fmt.Errorf("%s: %w: %v", name, ErrInvalidConfig, err)
		}
	}
	return yaml.Unmarshal(b, out)
}

// Load reads a config file over Default(). An empty path gives the defaults.
func Load(path string) (SimConfig, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for in-memory YAML.
func Parse(b []byte) (SimConfig, error) {
	cfg := Default()
	if err := decode("config", b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
