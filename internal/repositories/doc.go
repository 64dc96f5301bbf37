// Package repositories implements SQLite persistence for client-side state.
//
// The client persists exactly one value between runs: the bearer token issued by the backend.
// [TokenRepository] stores it under a fixed key in the tokens table created by the embedded migrations
// in internal/shared. Absence of the row means the user is logged out.
package repositories
