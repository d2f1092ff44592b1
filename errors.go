package corekit

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory is returned when an allocator cannot satisfy a request.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrOutOfRange reports an index outside the live range of a container.
	ErrOutOfRange = errors.New("index out of range")
	// ErrEmpty reports an access to the front, back or top of an empty container.
	ErrEmpty = errors.New("container is empty")
	// ErrInvalidIterator reports the use of an end, foreign or invalidated iterator.
	ErrInvalidIterator = errors.New("invalid iterator")
	// ErrInvalidHandle reports a freed, foreign or zero pool handle.
	ErrInvalidHandle = errors.New("invalid handle")
	// ErrInvalidLayout reports a type parameter combination that cannot describe storage.
	ErrInvalidLayout = errors.New("invalid layout")
)

// ContractError is the panic value of a violated precondition.
//
// The violated rule can be matched with errors.Is against the sentinel
// errors of this package after recovering.
type ContractError struct {
	Op     string
	Detail string
	cause  error
}

func (e *ContractError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.cause)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.cause, e.Detail)
}

func (e *ContractError) Unwrap() error { return e.cause }

// Violation panics with a ContractError for op.
func Violation(op string, cause error, format string, args ...any) {
	panic(&ContractError{
		Op:     op,
		Detail: fmt.Sprintf(format, args...),
		cause:  cause,
	})
}

// CheckIndex panics with ErrOutOfRange unless 0 <= i < n.
func CheckIndex(op string, i, n int) {
	if i < 0 || i >= n {
		Violation(op, ErrOutOfRange, "index %d, length %d", i, n)
	}
}

// CheckNotEmpty panics with ErrEmpty when n is zero.
func CheckNotEmpty(op string, n int) {
	if n == 0 {
		Violation(op, ErrEmpty, "")
	}
}

// OutOfMemory wraps err (if any) so that it matches ErrOutOfMemory.
func OutOfMemory(op string, size int, err error) error {
	if err != nil && errors.Is(err, ErrOutOfMemory) {
		return err
	}
	if err == nil {
		return fmt.Errorf("%s: %w: %d bytes", op, ErrOutOfMemory, size)
	}
	return fmt.Errorf("%s: %w: %d bytes: %w", op, ErrOutOfMemory, size, err)
}
