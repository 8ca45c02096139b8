package pipeline

import (
	"fmt"
	"sync"
)

// Registry manages registered steps
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
	order []string // Maintains registration order
}

// NewRegistry creates an empty step registry
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]Step),
		order: make([]string, 0),
	}
}

// Register adds a step to the registry
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil step")
	}

	id := step.ID()
	if id == "" {
		return fmt.Errorf("step ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.steps[id]; exists {
		return fmt.Errorf("step with ID %s already registered", id)
	}

	r.steps[id] = step
	r.order = append(r.order, id)
	return nil
}

// Get retrieves a step by ID
func (r *Registry) Get(id string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, exists := r.steps[id]
	if !exists {
		return nil, fmt.Errorf("step with ID %s not found", id)
	}
	return step, nil
}

// ListIDs returns all registered step IDs in registration order
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Count returns the number of registered steps
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.steps)
}

// GetDependencyOrder returns steps ordered by dependencies
func (r *Registry) GetDependencyOrder() ([]Step, error) {
	waves, err := r.GetWaves()
	if err != nil {
		return nil, err
	}
	var ordered []Step
	for _, w := range waves {
		ordered = append(ordered, w...)
	}
	return ordered, nil
}

// GetWaves groups steps into levels: every step's dependencies lie in an
// earlier wave, so steps within one wave may run concurrently. Steps in a
// wave keep registration order.
func (r *Registry) GetWaves() ([][]Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Build graph and calculate in-degrees
	graph := make(map[string][]string, len(r.steps))
	inDegree := make(map[string]int, len(r.steps))
	for id := range r.steps {
		inDegree[id] = 0
	}
	for id, step := range r.steps {
		for _, dep := range step.GetDependencies() {
			if _, exists := r.steps[dep]; !exists {
				return nil, NewDependencyError(id, dep,
					fmt.Sprintf("step %s depends on non-existent step %s", id, dep))
			}
			graph[dep] = append(graph[dep], id)
			inDegree[id]++
		}
	}

	// Kahn's algorithm, one level at a time
	var current []string
	for _, id := range r.order {
		if inDegree[id] == 0 {
			current = append(current, id)
		}
	}

	var waves [][]Step
	processed := 0
	for len(current) > 0 {
		wave := make([]Step, 0, len(current))
		ready := make(map[string]bool)
		for _, id := range current {
			wave = append(wave, r.steps[id])
			processed++
			for _, dependent := range graph[id] {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					ready[dependent] = true
				}
			}
		}
		waves = append(waves, wave)

		current = current[:0:0]
		for _, id := range r.order {
			if ready[id] {
				current = append(current, id)
			}
		}
	}

	if processed != len(r.steps) {
		return nil, NewFatalError("dependency cycle detected", nil)
	}
	return waves, nil
}
