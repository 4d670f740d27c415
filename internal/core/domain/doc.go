// Package domain defines the core business entities for Vendee.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types of the matching engine:
//
//   - Coordinate: A validated latitude/longitude pair
//   - Seller, Inventory: Fixed and mobile sellers and their stock
//   - StructuredDemand: A parsed buyer request
//   - MatchCandidate: A ranked seller for a demand
//   - DeliveryRequest, Offer: The persisted dispatch record
//   - DemandRecord: Aggregated unmet demand
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/shopspring/decimal for money
//   - Cannot Import: Any internal/ package
package domain
