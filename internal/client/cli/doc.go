// Package cli provides the interactive authkeeper command-line client.
//
// It wires configuration and the HTTP API client into a small REPL that
// walks an account through its lifecycle: register, verify, resend,
// login, forgot, reset, me and logout. Passwords are read without echo
// and wiped after use; the session token lives only in memory.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
