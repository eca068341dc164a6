// Package schema provides a registry for managing entity models
package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds every entity model. It is populated at startup and only read
// while requests are served.
type Registry struct {
	models        map[string]*Model
	defaultSchema string
	validator     *Validator
	mu            sync.RWMutex
}

// NewRegistry creates a new model registry. Models without an explicit schema
// are placed in defaultSchema.
func NewRegistry(defaultSchema string) *Registry {
	return &Registry{
		models:        make(map[string]*Model),
		defaultSchema: defaultSchema,
		validator:     NewValidator(),
	}
}

// Register indexes, validates and stores a model
func (r *Registry) Register(model *Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[model.ID]; exists {
		return fmt.Errorf("model %s is already registered", model.ID)
	}

	model.Index(r.defaultSchema)
	if err := r.validator.Validate(model); err != nil {
		return fmt.Errorf("model validation failed for %s: %w", model.ID, err)
	}

	r.models[model.ID] = model
	return nil
}

// RegisterAll registers each model in order, stopping at the first failure
func (r *Registry) RegisterAll(models []*Model) error {
	for _, m := range models {
		if err := r.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a model by entity id
func (r *Registry) Get(id string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	model, exists := r.models[id]
	return model, exists
}

// List returns the registered entity ids in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.models))
	for id := range r.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered models
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.models)
}
