// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"errors"
	"fmt"
)

// ObjectRef identifies an object living in the backend JVM.
type ObjectRef string

// Remote is implemented by every value that stands for a backend
// object. Arguments implementing it are sent as their reference.
type Remote interface {
	RemoteRef() ObjectRef
}

// Transport is a connection to the backend's object bridge. Arguments
// and results are nil, bool, integers, float64, string, ObjectRef, or
// slices of those. Exceptions raised inside the backend are returned
// as *RemoteError; any other error means the connection failed.
type Transport interface {
	// New constructs an instance of class.
	New(ctx context.Context, class string, args ...any) (ObjectRef, error)

	// Call invokes method on the object target.
	Call(ctx context.Context, target ObjectRef, method string, args ...any) (any, error)

	// CallStatic invokes a static method of class.
	CallStatic(ctx context.Context, class, method string, args ...any) (any, error)

	// Field reads a static field of class.
	Field(ctx context.Context, class, name string) (any, error)

	// SetField assigns a static field of class.
	SetField(ctx context.Context, class, name string, value any) error

	Close() error
}

// Dialer opens a Transport to the backend at address.
type Dialer func(ctx context.Context, address string) (Transport, error)

// RemoteError is an exception raised by the backend, for example
// FindFailed when an image is not on screen.
type RemoteError struct {
	Class   string
	Method  string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("backend %s: %s", e.Class, e.Message)
	}
	return fmt.Sprintf("backend %s in %s: %s", e.Class, e.Method, e.Message)
}

// IsRemote reports whether err came from an exception inside the
// backend rather than a transport failure.
func IsRemote(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote)
}

// encodeArgs replaces Remote values with their references.
func encodeArgs(args []any) []any {
	encoded := make([]any, len(args))
	for i, arg := range args {
		switch value := arg.(type) {
		case Remote:
			encoded[i] = value.RemoteRef()
		case []Remote:
			refs := make([]any, len(value))
			for j, item := range value {
				refs[j] = item.RemoteRef()
			}
			encoded[i] = refs
		default:
			encoded[i] = arg
		}
	}
	return encoded
}
