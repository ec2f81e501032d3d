// Package services implements the driving port interfaces.
// Services hold the registry, composition, lifecycle, staging, sync and
// reconstruction logic and orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO dependencies.
package services
