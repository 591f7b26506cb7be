package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Predicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "not found", err: NewNotFoundError(999), check: IsNotFound},
		{name: "schema", err: NewSchemaError([]string{FieldCategory}), check: IsSchema},
		{name: "empty corpus", err: ErrEmptyCorpus, check: IsEmptyCorpus},
		{name: "corrupt model", err: NewCorruptModelError("bad", nil), check: IsCorruptModel},
		{name: "untrained", err: ErrUntrainedModel, check: IsUntrained},
		{name: "wrapped not found", err: fmt.Errorf("query: %w", NewNotFoundError(1)), check: IsNotFound},
		{name: "store not found", err: ErrStoreNotFound, check: IsStoreNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("predicate returned false for %v", tt.err)
			}
			if !IsDomainError(tt.err) {
				t.Errorf("IsDomainError(%v) = false", tt.err)
			}
		})
	}
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("load: %w", NewCorruptModelError("missing index", nil))
	if !errors.Is(err, NewCorruptModelError("other reason", nil)) {
		t.Error("errors.Is should match corrupt model errors by code")
	}
	if errors.Is(err, ErrUntrainedModel) {
		t.Error("errors.Is matched a different code")
	}
	if IsStoreNotFound(NewNotFoundError(1)) {
		t.Error("product not found must not be reported as store not found")
	}
}

func TestDomainError_UnwrapCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewCorruptModelError("decode", cause)
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable through errors.Is")
	}
	if got, want := err.Error(), "checkpoint: corrupt model: decode: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestSchemaError_Missing(t *testing.T) {
	err := NewSchemaError([]string{FieldCategory, FieldPrice})
	de := GetDomainError(err)
	if de == nil || len(de.Missing) != 2 || de.Missing[0] != FieldCategory {
		t.Fatalf("Missing = %v, want [category price]", de.Missing)
	}
}
