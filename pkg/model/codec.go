package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

// Parse decodes a model from YAML or JSON and validates it.
func Parse(data []byte) (*Model, error) {
	m := &Model{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("model: decode: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads and parses a model file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model: read %s: %w", path, err)
	}
	return Parse(data)
}

// Save writes the model to path, as JSON for .json files and YAML otherwise.
func Save(path string, m *Model) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(m, "", "  ")
	} else {
		data, err = yaml.Marshal(m)
	}
	if err != nil {
		return fmt.Errorf("model: encode: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Marshal encodes the model as canonical JSON.
func Marshal(m *Model) ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal decodes canonical JSON without validating.
func Unmarshal(data []byte) (*Model, error) {
	m := &Model{}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	data, err := Marshal(m)
	if err != nil {
		panic(fmt.Sprintf("model: clone: %v", err))
	}
	out, err := Unmarshal(data)
	if err != nil {
		panic(fmt.Sprintf("model: clone: %v", err))
	}
	return out
}
