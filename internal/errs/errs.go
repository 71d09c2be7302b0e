// Package errs defines the error envelope returned by the API.
//
// Every failure that reaches the client is an *HTTPError: a stable
// machine code, a human message, the HTTP status and, for validation
// failures, the list of offending fields.
package errs
