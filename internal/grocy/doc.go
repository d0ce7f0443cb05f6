// Package grocy provides an HTTP client for the Grocy REST API.
//
// # Overview
//
// Only the endpoints the terminal client needs are covered:
//
//   - GET  /api/objects/{kind}       list every row of a master-data table
//   - POST /api/objects/{kind}       create a row, answers {"created_object_id": n}
//   - PUT  /api/objects/{kind}/{id}  replace a row, answers 204
//   - GET  /api/system/db-changed-time  last database change, used for cache freshness
//
// # Authentication
//
// Requests carry the GROCY-API-KEY header when a key is configured. A 401
// answer is reported as ErrUnauthorized so callers can tell a bad key from
// an unreachable server.
//
// # Errors
//
// Non-2xx answers become *APIError, carrying the status and Grocy's
// error_message when the body has one. Transport and decoding failures are
// wrapped with context ("execute request", "decode response").
//
// # Correlation
//
// Mutations send an X-Request-ID header. Callers attach their own id with
// WithRequestID so the same value shows up in the client log; otherwise a
// random UUID is minted per request.
//
// # Testing
//
// The grocytest subpackage runs an in-memory Grocy on httptest for store and
// integration tests.
package grocy
