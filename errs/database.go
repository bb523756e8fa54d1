package errs

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Store availability errors
var (
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrDatabaseTimeout   = errors.New("database timeout")
	ErrTransactionFailed = errors.New("transaction failed")
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		errStr := cause.Error()
		switch {
		case strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "UNIQUE constraint failed"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "foreign key constraint"), strings.Contains(errStr, "FOREIGN KEY constraint failed"):
			return &ApiErr{
				StatusCode: http.StatusBadRequest,
				err:        fmt.Errorf("invalid reference in %s: %w", entity, ErrBadRequest),
				Details:    "The referenced resource does not exist or cannot be linked",
				Cause:      cause,
			}
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

// NewStoreUnavailableError reports that the backing store could not be reached.
func NewStoreUnavailableError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        fmt.Errorf("%w: %w", ErrStoreUnavailable, ErrDatabaseConnection),
		Details:    fmt.Sprintf("Store unreachable during %s", operation),
		Cause:      cause,
	}
}

// NewDatabaseTimeoutError is a store-unavailable error caused by an expired deadline.
func NewDatabaseTimeoutError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        fmt.Errorf("%w: %w", ErrStoreUnavailable, ErrDatabaseTimeout),
		Details:    fmt.Sprintf("Database timeout during %s", operation),
		Cause:      cause,
		Field:      "timeout",
	}
}

func NewTransactionFailedError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrTransactionFailed,
		Details:    fmt.Sprintf("Transaction failed during %s", operation),
		Cause:      cause,
		Field:      "transaction",
	}
}

// ClassifyStoreError maps a raw store error into the error taxonomy.
// ApiErr values pass through unchanged.
func ClassifyStoreError(operation, entity string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewDatabaseTimeoutError(operation+" "+entity, err)
	case errors.Is(err, context.Canceled), isConnectionError(err):
		return NewStoreUnavailableError(operation+" "+entity, err)
	}
	return NewDatabaseError(operation, entity, err)
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	for _, fragment := range []string{
		"database is closed",
		"connection refused",
		"connection reset",
		"failed to connect",
		"broken pipe",
		"no such host",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsDatabaseTimeoutError(err error) bool {
	return errors.Is(err, ErrDatabaseTimeout)
}

func IsTransactionFailedError(err error) bool {
	return errors.Is(err, ErrTransactionFailed)
}
