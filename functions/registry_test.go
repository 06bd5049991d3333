package functions

import (
	"context"
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
)

func identityScalar(name string) ScalarFunction {
	sig := FunctionSignature{
		Parameters: []arrow.DataType{arrow.PrimitiveTypes.Float64},
		ReturnType: arrow.PrimitiveTypes.Float64,
	}
	return NewScalar(name, sig, func(_ context.Context, input arrow.RecordBatch) (arrow.RecordBatch, error) {
		input.Retain()
		return input, nil
	})
}

func TestRegisterAndLookupUDF(t *testing.T) {
	r := NewMemRegistry()

	if err := r.RegisterUDF(identityScalar("abs2")); err != nil {
		t.Fatalf("register: %v", err)
	}

	fn, err := r.UDF("abs2")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if fn.Name() != "abs2" {
		t.Errorf("name = %q", fn.Name())
	}
	if fn.Signature().ReturnType.ID() != arrow.FLOAT64 {
		t.Errorf("return type = %s", fn.Signature().ReturnType)
	}

	_, err = r.UDF("missing")
	var notExists *ErrFunctionNotExists
	if !errors.As(err, &notExists) {
		t.Fatalf("miss: got %v, want ErrFunctionNotExists", err)
	}
	if notExists.Name != "missing" {
		t.Errorf("error name = %q", notExists.Name)
	}
}

func TestRegisterDuplicateUDF(t *testing.T) {
	r := NewMemRegistry()
	if err := r.RegisterUDF(identityScalar("abs2")); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := r.RegisterUDF(identityScalar("abs2"))
	var exists *ErrFunctionExists
	if !errors.As(err, &exists) {
		t.Fatalf("duplicate: got %v, want ErrFunctionExists", err)
	}
}

func TestRegisterInvalidUDF(t *testing.T) {
	r := NewMemRegistry()
	if err := r.RegisterUDF(nil); err == nil {
		t.Fatal("expected error for nil function")
	}
	if err := r.RegisterUDF(identityScalar("")); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestRegisterAndLookupUDAF(t *testing.T) {
	r := NewMemRegistry()

	sig := FunctionSignature{
		Parameters: []arrow.DataType{arrow.PrimitiveTypes.Float64},
		ReturnType: arrow.PrimitiveTypes.Float64,
	}
	state := []arrow.DataType{arrow.PrimitiveTypes.Float64, arrow.PrimitiveTypes.Int64}
	if err := r.RegisterUDAF(NewAggregate("mean2", sig, state)); err != nil {
		t.Fatalf("register: %v", err)
	}

	fn, err := r.UDAF("mean2")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(fn.StateTypes()) != 2 {
		t.Errorf("state types = %v", fn.StateTypes())
	}

	// Scalar and aggregate namespaces are separate.
	if _, err := r.UDF("mean2"); err == nil {
		t.Error("aggregate leaked into the scalar namespace")
	}

	var notExists *ErrFunctionNotExists
	if _, err := r.UDAF("missing"); !errors.As(err, &notExists) {
		t.Fatalf("miss: got %v, want ErrFunctionNotExists", err)
	}
}
