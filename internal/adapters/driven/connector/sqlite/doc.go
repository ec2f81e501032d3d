// Package sqlite provides a connector that keeps remote tables in a SQLite
// database file.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Every table row carries a db column holding the logical
// database it was committed to, so several databases can share one file.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory.
//
// # Transactions
//
// AddEntries writes inside a transaction opened on first use; Commit
// commits it. Rows added but never committed are rolled back on Close.
package sqlite
