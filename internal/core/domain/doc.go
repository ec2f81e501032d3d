// Package domain defines the core business entities for paramframe.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Parameter: One processed file, identified by a content hash
//   - ParameterAttribute / AttributeValue: One node of a decomposed file
//   - ParameterSet: A named, ordered group of parameters
//   - Solution: A deployment unit owning parameter sets
//   - StagedSolution: Denormalized rows ready for a connector
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
