package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseModels decodes every YAML document in data as one model
func ParseModels(data []byte) ([]*Model, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var models []*Model
	for {
		var m Model
		err := dec.Decode(&m)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode model: %w", err)
		}
		models = append(models, &m)
	}
	return models, nil
}

// LoadFile reads the models defined in a single YAML file
func LoadFile(path string) ([]*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	models, err := ParseModels(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return models, nil
}

// LoadDir reads every .yml and .yaml file in dir, in file name order
func LoadDir(dir string) ([]*Model, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read models directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yml" || ext == ".yaml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var models []*Model
	for _, name := range names {
		ms, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		models = append(models, ms...)
	}
	return models, nil
}

// LoadRegistry loads every model in dir into a new registry
func LoadRegistry(dir, defaultSchema string) (*Registry, error) {
	models, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry(defaultSchema)
	if err := registry.RegisterAll(models); err != nil {
		return nil, err
	}
	return registry, nil
}
