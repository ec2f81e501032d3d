package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested solution, parameter set or
	// parameter cannot be resolved by name or id.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates a file type the codec cannot handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// Codec Errors.

	// ErrReconstruction indicates stored nodes do not form a valid tree or chain.
	ErrReconstruction = errors.New("reconstruction failed")

	// ErrMaxDepth indicates structured content nests deeper than allowed.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")

	// Lifecycle Errors.

	// ErrStateTransition indicates a deployment status change was attempted
	// from a state other than its required predecessor.
	ErrStateTransition = errors.New("invalid state transition")

	// Connector Errors.

	// ErrConnector indicates the external connector failed.
	// Pushes are not atomic: tables written before the failure stay written.
	ErrConnector = errors.New("connector failure")

	// ErrConnectorClosed indicates the connector has been closed.
	ErrConnectorClosed = errors.New("connector closed")
)
