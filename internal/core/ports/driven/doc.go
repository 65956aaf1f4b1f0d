// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for a sync run to function:
//
//   - ConnectionStore: Tenant connection persistence
//   - CredentialRefresher: Upstream OAuth token renewal
//   - InventoryClient: User and host inventory reads from the source
//   - Publisher: Bulk resource replacement on the upstream platform
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
