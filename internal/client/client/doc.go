// Package client talks to the venue-booking REST API and bootstraps the
// local credential database.
//
// # Overview
//
// The package provides:
//  1. HTTPTransport, a JSON-over-HTTP transport that injects the bearer token
//     of the current session into every request, tags requests with an
//     X-Request-ID, and unwraps the API's {"data": ...} envelopes.
//  2. An error taxonomy the views branch on: *ValidationError for per-field
//     failures (server 422 or client-side preconditions), *StatusError for
//     every other non-2xx answer, and ErrUnavailable for network failures,
//     timeouts and 5xx.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Match with errors.Is against ErrUnauthorized (401 and 403), ErrNotFound
// (404) and ErrUnavailable. UserMessage renders any error as the single
// human-readable line shown next to the action that failed.
//
// Concurrency & Contexts
//
// HTTPTransport is safe for concurrent use. Every call accepts a
// context.Context and honors its cancellation on top of the configured
// request timeout.
package client
