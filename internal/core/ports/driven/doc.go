// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Connector: Pushes rows to and pulls rows from an external store
//   - ParameterStore: Parameter Registry entries
//   - ParameterSetStore: Composed parameter sets
//   - SolutionStore: Solutions and their parameter set links
//   - StagingStore: Commit Staging Store entries
//   - StateStore: Snapshot persistence between processes
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
