package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIncludesInternal(t *testing.T) {
	internal := stdErrors.New("boom")
	err := Wrap(internal, "failed")

	if err.Error() != "failed: boom" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestWithInternalCopies(t *testing.T) {
	base := New("TEST", "test", 400)
	with := base.WithInternal(stdErrors.New("oops"))

	if with == base {
		t.Fatal("expected WithInternal to return a copy")
	}

	if base.Internal != nil {
		t.Fatal("expected original error to remain unchanged")
	}

	if with.Internal == nil {
		t.Fatal("expected internal error to be set")
	}
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(stdErrors.New("database gone"))
	if appErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", appErr.StatusCode)
	}
	if appErr.Code != ErrInternalServer.Code {
		t.Fatalf("unexpected code %s", appErr.Code)
	}
}

func TestFromErrorUnwrapsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("notification service: %w", NewNotFound("user"))
	appErr := FromError(wrapped)

	if appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", appErr.StatusCode)
	}
	if appErr.Message != "user not found" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestIsMatchesDerivedCopies(t *testing.T) {
	err := NewRequiredField("status")

	if !stdErrors.Is(err, ErrValidation) {
		t.Fatal("expected required field error to match ErrValidation")
	}
	if stdErrors.Is(err, ErrBadRequest) {
		t.Fatal("validation error must not match ErrBadRequest")
	}
	if err.Fields["status"] != "This field is required." {
		t.Fatalf("unexpected field message %q", err.Fields["status"])
	}
	if len(ErrValidation.Fields) != 0 {
		t.Fatal("sentinel must not be mutated by WithField")
	}
}
