// Package errors defines the structured error type and error codes used by
// the webapp bootstrap toolkit.
package errors
