package errs

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClassifyStoreError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		check      func(error) bool
	}{
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, IsDatabaseTimeoutError},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, IsStoreUnavailable},
		{"bad conn", driver.ErrBadConn, http.StatusServiceUnavailable, IsStoreUnavailable},
		{"closed pool", errors.New("sql: database is closed"), http.StatusServiceUnavailable, IsStoreUnavailable},
		{"refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), http.StatusServiceUnavailable, IsStoreUnavailable},
		{"duplicate", errors.New("UNIQUE constraint failed: users.email"), http.StatusConflict, IsAlreadyExists},
		{"generic", errors.New("syntax error"), http.StatusInternalServerError, func(err error) bool { return errors.Is(err, ErrDatabaseQuery) }},
		{"passthrough", NewNotFound("project"), http.StatusNotFound, IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStoreError("find", "project", tt.err)
			if StatusCode(got) != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%v)", StatusCode(got), tt.wantStatus, got)
			}
			if !tt.check(got) {
				t.Fatalf("classification check failed for %v", got)
			}
		})
	}

	if ClassifyStoreError("find", "project", nil) != nil {
		t.Fatal("nil error should stay nil")
	}
}

func TestTimeoutIsStoreUnavailable(t *testing.T) {
	err := NewDatabaseTimeoutError("record contribution", context.DeadlineExceeded)
	if !IsStoreUnavailable(err) {
		t.Fatal("timeout must count as store unavailable")
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(NewMissingRequiredFieldError("title")) {
		t.Error("missing field should be a validation error")
	}
	if !IsValidation(NewInvalidFieldError("amount", "must be positive")) {
		t.Error("invalid field should be a validation error")
	}
	if !IsValidation(NewInvalidJSONError(errors.New("eof"))) {
		t.Error("invalid JSON should be a validation error")
	}
	if IsValidation(NewNotFound("project")) {
		t.Error("not found is not a validation error")
	}
}

func TestGetFullError(t *testing.T) {
	inner := NewNotFound("user")
	outer := NewInternalErrorWithCause("load dashboard", inner)
	want := "load dashboard: internal server error -> user not found"
	if got := outer.GetFullError(); got != want {
		t.Fatalf("GetFullError() = %q, want %q", got, want)
	}
	if !errors.Is(outer, ErrInternal) {
		t.Fatal("outer should unwrap to ErrInternal")
	}
}

func TestStatusCodeForPlainError(t *testing.T) {
	if got := StatusCode(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d", got)
	}
}

func TestTransactionFailedIsNotStoreUnavailable(t *testing.T) {
	err := NewTransactionFailedError("record contribution", errors.New("commit: disk I/O error"))
	if !IsTransactionFailedError(err) || IsStoreUnavailable(err) {
		t.Fatalf("classification = %v", err)
	}
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("status = %d", StatusCode(err))
	}
}

func TestInvalidTokenCoversMissingToken(t *testing.T) {
	if !IsInvalidTokenError(NewMissingTokenError()) || !IsInvalidTokenError(NewInvalidTokenError(nil)) {
		t.Fatal("both token errors should match")
	}
	if IsInvalidTokenError(NewNotFound("user")) {
		t.Fatal("not found is not a token error")
	}
}
