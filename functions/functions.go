// Package functions defines the scalar and aggregate function descriptors
// the planner consumes, and a registry keyed by function name.
package functions

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
)

// FunctionSignature describes the parameter and return types of a
// function.
type FunctionSignature struct {
	// Parameters is the list of parameter types, in order.
	Parameters []arrow.DataType

	// ReturnType is the function's return type.
	ReturnType arrow.DataType

	// Variadic indicates that the last parameter accepts multiple values.
	Variadic bool
}

// ScalarFunction is a user-defined scalar function.
// Implementations MUST be goroutine-safe.
type ScalarFunction interface {
	// Name returns the function name. Lookup is case-sensitive.
	Name() string

	// Signature returns the parameter and return types.
	Signature() FunctionSignature

	// Execute evaluates the function over a batch of inputs. The input
	// columns match the signature parameters; the result has a single
	// column of the return type. Caller releases the result.
	Execute(ctx context.Context, input arrow.RecordBatch) (arrow.RecordBatch, error)
}

// AggregateFunction is a user-defined aggregate function descriptor. The
// planner only needs its identity and signature; accumulation is the
// execution engine's concern.
type AggregateFunction interface {
	// Name returns the function name. Lookup is case-sensitive.
	Name() string

	// Signature returns the parameter and return types.
	Signature() FunctionSignature

	// StateTypes returns the types of the intermediate aggregate state.
	StateTypes() []arrow.DataType
}

// ScalarExecFunc is the evaluation callback of a scalar function built
// with NewScalar.
type ScalarExecFunc func(ctx context.Context, input arrow.RecordBatch) (arrow.RecordBatch, error)

// NewScalar builds a ScalarFunction from a name, signature and callback.
func NewScalar(name string, sig FunctionSignature, fn ScalarExecFunc) ScalarFunction {
	return &scalarFunc{name: name, sig: sig, fn: fn}
}

type scalarFunc struct {
	name string
	sig  FunctionSignature
	fn   ScalarExecFunc
}

func (f *scalarFunc) Name() string                 { return f.name }
func (f *scalarFunc) Signature() FunctionSignature { return f.sig }

func (f *scalarFunc) Execute(ctx context.Context, input arrow.RecordBatch) (arrow.RecordBatch, error) {
	return f.fn(ctx, input)
}

// NewAggregate builds an AggregateFunction descriptor.
func NewAggregate(name string, sig FunctionSignature, stateTypes []arrow.DataType) AggregateFunction {
	return &aggregateFunc{name: name, sig: sig, state: stateTypes}
}

type aggregateFunc struct {
	name  string
	sig   FunctionSignature
	state []arrow.DataType
}

func (f *aggregateFunc) Name() string                 { return f.name }
func (f *aggregateFunc) Signature() FunctionSignature { return f.sig }
func (f *aggregateFunc) StateTypes() []arrow.DataType { return f.state }
