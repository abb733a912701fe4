// Package validation contains the logic for validating request data.
//
// Request payloads declare rules through `validate` struct tags enforced by
// go-playground/validator; failures are extracted into field-level errors a
// client can act on.
package validation
