// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SellerStore: Seller persistence
//   - InventoryStore: Inventory snapshot persistence
//   - RequestLog: Append-only delivery request log
//   - DemandStore: Unmet demand aggregation
//   - SellerResponder: Decides a seller's answer to a delivery offer
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ItemDetector: Image classification for inventory. Without it, detection is disabled.
//   - EventPublisher: Analytics event stream. Without it, events are dropped.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
