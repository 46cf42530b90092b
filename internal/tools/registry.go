package tools

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ToolRegistry = (*Registry)(nil)

// Registry implements ToolRegistry keyed by unique tool name.
// Registration order is preserved so the model always sees tools in the same order.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]driven.Tool
	order []string
}

// NewRegistry creates a registry holding tools.
// It fails with ErrDuplicateTool if two tools share a name.
func NewRegistry(tools ...driven.Tool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]driven.Tool, len(tools)),
		order: make([]string, 0, len(tools)),
	}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry is NewRegistry for process startup; it panics on a configuration error.
func MustRegistry(tools ...driven.Tool) *Registry {
	r, err := NewRegistry(tools...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds a tool.
func (r *Registry) Register(tool driven.Tool) error {
	if tool == nil {
		return fmt.Errorf("%w: nil tool", domain.ErrInvalidConfig)
	}
	name := strings.TrimSpace(tool.Spec().Name)
	if name == "" {
		return fmt.Errorf("%w: tool name is required", domain.ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateTool, name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Resolve returns the tool registered under name.
func (r *Registry) Resolve(name string) (driven.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// Specs returns every tool spec in registration order.
func (r *Registry) Specs() []domain.ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]domain.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Spec())
	}
	return specs
}

// Names returns every tool name in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
