package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("row locked")
	err := Wrap(CodeConflict, cause, "insufficient stock")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to unwrap")
	}
	if err.Code() != CodeConflict {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestAsFindsTypedError(t *testing.T) {
	t.Parallel()

	inner := New(CodeNotFound, "product not found")
	wrapped := Wrap(CodeDependency, inner, "load product")

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", typed.Code())
	}

	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NO_SUCH_CODE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", meta.HTTPStatus)
	}
}

func TestNilErrorAccessors(t *testing.T) {
	t.Parallel()

	var e *Error
	if e.Code() != CodeInternal {
		t.Fatalf("unexpected nil code: %s", e.Code())
	}
	if e.Error() != "" || e.Message() != "" || e.Details() != nil || e.Unwrap() != nil {
		t.Fatal("nil error accessors should be zero values")
	}
}
