// Package middleware holds the global Echo middleware of the bank service:
// request IDs, request-scoped logging, CORS, secure headers, rate limiting,
// New Relic tracing, panic recovery, and the global error handler.
package middleware
