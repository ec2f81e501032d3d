// Package connector selects and opens the connector used by push and pull.
// Each subpackage implements driven.Connector over one kind of remote
// store (process memory, SQLite, BadgerDB); ratelimit wraps any of them.
package connector
