// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as authentication (Redis backed sessions, admin API tokens and
// storefront bearer tokens), request logging, CORS, rate limiting,
// tracing, metrics and panic recovery.
package middleware
