// Package validation wraps go-playground/validator for struct-tag based
// validation of configuration objects.
package validation
