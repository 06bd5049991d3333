package functions

import (
	"fmt"
	"sync"
)

// Registry is the function registry contract consumed by the metadata
// facade and the planner adapter. Implementations MUST be goroutine-safe.
type Registry interface {
	// UDF returns the scalar function of the given name.
	UDF(name string) (ScalarFunction, error)

	// UDAF returns the aggregate function of the given name.
	UDAF(name string) (AggregateFunction, error)

	// RegisterUDF adds a scalar function. Duplicate names are rejected.
	RegisterUDF(fn ScalarFunction) error

	// RegisterUDAF adds an aggregate function. Duplicate names are rejected.
	RegisterUDAF(fn AggregateFunction) error
}

// ErrFunctionNotExists reports a lookup miss. The planner treats it as
// absence, not as a failure.
type ErrFunctionNotExists struct {
	Name string
}

func (e *ErrFunctionNotExists) Error() string {
	return fmt.Sprintf("function %q not exists", e.Name)
}

// ErrFunctionExists reports a registration collision.
type ErrFunctionExists struct {
	Name string
}

func (e *ErrFunctionExists) Error() string {
	return fmt.Sprintf("function %q already exists", e.Name)
}

// MemRegistry is an in-memory Registry.
type MemRegistry struct {
	mu    sync.RWMutex
	udfs  map[string]ScalarFunction
	udafs map[string]AggregateFunction
}

var _ Registry = (*MemRegistry)(nil)

// NewMemRegistry creates an empty registry.
func NewMemRegistry() *MemRegistry {
	return &MemRegistry{
		udfs:  make(map[string]ScalarFunction),
		udafs: make(map[string]AggregateFunction),
	}
}

// UDF implements Registry.
func (r *MemRegistry) UDF(name string) (ScalarFunction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.udfs[name]
	if !ok {
		return nil, &ErrFunctionNotExists{Name: name}
	}
	return fn, nil
}

// UDAF implements Registry.
func (r *MemRegistry) UDAF(name string) (AggregateFunction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.udafs[name]
	if !ok {
		return nil, &ErrFunctionNotExists{Name: name}
	}
	return fn, nil
}

// RegisterUDF implements Registry.
func (r *MemRegistry) RegisterUDF(fn ScalarFunction) error {
	if fn == nil || fn.Name() == "" {
		return fmt.Errorf("register udf: empty function name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.udfs[fn.Name()]; ok {
		return &ErrFunctionExists{Name: fn.Name()}
	}
	r.udfs[fn.Name()] = fn
	return nil
}

// RegisterUDAF implements Registry.
func (r *MemRegistry) RegisterUDAF(fn AggregateFunction) error {
	if fn == nil || fn.Name() == "" {
		return fmt.Errorf("register udaf: empty function name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.udafs[fn.Name()]; ok {
		return &ErrFunctionExists{Name: fn.Name()}
	}
	r.udafs[fn.Name()] = fn
	return nil
}
