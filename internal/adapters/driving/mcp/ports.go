package mcp

import (
	"github.com/vendee/vendee/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// SmartBuy runs the full demand-to-recommendation pipeline.
	SmartBuy driving.SmartBuyService

	// Matching ranks and lists sellers.
	Matching driving.MatchingService

	// Parser turns free text into structured demand.
	Parser driving.DemandParser

	// Dispatch offers deliveries to mobile sellers.
	Dispatch driving.DispatchService

	// Demand tracks unmet demand.
	Demand driving.DemandTracker

	// Seller exposes sellers and inventory for resources.
	Seller driving.SellerService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.SmartBuy == nil {
		return ErrMissingSmartBuyService
	}
	if p.Matching == nil {
		return ErrMissingMatchingService
	}
	// Parser, Dispatch, Demand and Seller are optional
	return nil
}
