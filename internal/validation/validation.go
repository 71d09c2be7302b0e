// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields or email formats) defined in struct tags,
// gates experimental fields behind feature flags, and
// extracts validation errors into a format the client can
// understand
package validation
