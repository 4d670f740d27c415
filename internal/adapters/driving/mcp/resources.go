package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vendee/vendee/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for Vendee resources.
	uriScheme = "vendee://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource listing sellers.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sellers",
		Name:        "sellers",
		Description: "All registered sellers",
		MIMEType:    "application/json",
	}, s.handleSellersResource)

	// Static resource listing unmet demand.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "demand",
		Name:        "demand",
		Description: "Aggregated demand that no seller could serve",
		MIMEType:    "application/json",
	}, s.handleDemandResource)

	// Template for a single seller with inventory.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sellers/{sellerId}",
		Name:        "seller",
		Description: "A seller and their current inventory",
		MIMEType:    "application/json",
	}, s.handleSellerResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func emptyList(uri string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     "[]",
		}},
	}
}

// handleSellersResource returns a summary of every seller.
func (s *Server) handleSellersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Seller == nil {
		return emptyList(req.Params.URI), nil
	}

	sellers, err := s.ports.Seller.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sellers: %w", err)
	}

	type sellerInfo struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		Kind   string  `json:"kind"`
		Status string  `json:"status"`
		Rating float64 `json:"rating"`
	}

	infos := make([]sellerInfo, len(sellers))
	for i := range sellers {
		infos[i] = sellerInfo{
			ID:     sellers[i].ID,
			Name:   sellers[i].Name,
			Kind:   string(sellers[i].Kind),
			Status: string(sellers[i].Status),
			Rating: sellers[i].Rating,
		}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleDemandResource returns every demand record.
func (s *Server) handleDemandResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Demand == nil {
		return emptyList(req.Params.URI), nil
	}

	records, err := s.ports.Demand.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing demand: %w", err)
	}
	return jsonResource(req.Params.URI, records)
}

// handleSellerResource returns one seller and their inventory.
func (s *Server) handleSellerResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Seller == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract sellerId from URI: vendee://sellers/{sellerId}
	sellerID := extractSellerID(req.Params.URI)
	if sellerID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	seller, err := s.ports.Seller.Get(ctx, sellerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting seller: %w", err)
	}

	view := struct {
		Seller    *domain.Seller    `json:"seller"`
		Inventory *domain.Inventory `json:"inventory,omitempty"`
	}{Seller: seller}

	inv, err := s.ports.Seller.Inventory(ctx, sellerID)
	switch {
	case err == nil:
		view.Inventory = inv
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("getting inventory: %w", err)
	}
	return jsonResource(req.Params.URI, view)
}

// extractSellerID extracts the seller ID from a URI like vendee://sellers/{sellerId}.
func extractSellerID(uri string) string {
	const prefix = uriScheme + "sellers/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
