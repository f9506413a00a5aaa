package database

import "fmt"

// ConnectionError represents a failure to obtain or use a connection:
// acquisition timeout, refused connection, failed ping.
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// ExecutionError represents a statement rejected by the engine.
type ExecutionError struct {
	Query string
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error: %v", e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// UnsupportedColumnTypeError is returned when a cell cannot be decoded
// by any supported kind.
type UnsupportedColumnTypeError struct {
	Column string
	Type   string
	Value  any
}

func (e *UnsupportedColumnTypeError) Error() string {
	typ := e.Type
	if typ == "" {
		typ = fmt.Sprintf("%T", e.Value)
	}
	return fmt.Sprintf("column type not implemented: `%s` %s", e.Column, typ)
}

// UnknownEngineError is returned when no adapter handles a URL scheme.
type UnknownEngineError struct {
	Scheme    string
	Available []string
}

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("unknown database engine %q (available: %v)", e.Scheme, e.Available)
}
