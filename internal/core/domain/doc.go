// Package domain defines the core business entities for attest.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Connection: One tenant's source instance and upstream binding
//   - SourceUser / SourceHost / HostDetail: Inventory as the source reports it
//   - UserResource / DeviceResource: Records in the upstream sync schema
//   - RunReport: Per-connection outcome of one sync pass
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
