// Package client talks to the authkeeper JSON API.
//
// # Overview
//
// Client is the transport-agnostic contract the CLI uses; HTTPClient is the
// implementation over net/http. Every call takes a context.Context and
// honors cancellation and timeouts.
//
// # Error Handling
//
// A server that cannot be reached yields an error matching ErrUnavailable.
// Any non-2xx answer is an *APIError carrying the status code and the
// server's message; a 401 additionally matches ErrUnauthorized.
package client
