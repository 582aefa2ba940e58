// Package validator provides struct validation for request inputs.
package validator

// Validator validates structs based on their field tags.
type Validator interface {
	// Validate checks the given struct and returns an error describing the
	// first set of violated rules, or nil when the value is valid.
	Validate(s any) error
}
