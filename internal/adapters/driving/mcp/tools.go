package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vendee/vendee/internal/core/domain"
)

// ParseDemandInput is the input schema for the parse_demand tool.
type ParseDemandInput struct {
	Text string `json:"text" jsonschema:"free-text request such as 'I want 2 kg bananas delivered'"`
}

// ParseDemandOutput is the output schema for the parse_demand tool.
type ParseDemandOutput struct {
	Demand      domain.StructuredDemand `json:"demand"`
	Suggestions []string                `json:"suggestions,omitempty"`
}

// SmartBuyInput is the input schema for the smartbuy tool.
type SmartBuyInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"buyer latitude in degrees"`
	Longitude float64 `json:"longitude" jsonschema:"buyer longitude in degrees"`
	Text      string  `json:"text" jsonschema:"free-text request such as 'I want 2 kg bananas delivered'"`
}

// SmartBuyOutput is the output schema for the smartbuy tool.
type SmartBuyOutput struct {
	Message         string            `json:"message"`
	Items           []string          `json:"items"`
	Delivery        bool              `json:"delivery_requested"`
	Recommendations []CandidateOutput `json:"recommendations"`
	UnmetItems      []string          `json:"unmet_items,omitempty"`
	NoMatches       bool              `json:"no_matches"`
	Suggestions     []string          `json:"suggestions,omitempty"`
}

// CandidateOutput is one ranked seller.
type CandidateOutput struct {
	SellerID   string   `json:"seller_id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Contact    string   `json:"contact,omitempty"`
	Rating     float64  `json:"rating"`
	DistanceKm float64  `json:"distance_km"`
	Items      []string `json:"items"`
	TotalPrice string   `json:"total_price"`
	MatchScore float64  `json:"match_score"`
	AIScore    *float64 `json:"ai_score,omitempty"`
}

// MatchSellersInput is the input schema for the match_sellers tool.
type MatchSellersInput struct {
	Latitude  float64  `json:"latitude" jsonschema:"buyer latitude in degrees"`
	Longitude float64  `json:"longitude" jsonschema:"buyer longitude in degrees"`
	Items     []string `json:"items" jsonschema:"item names to look for"`
	Kind      string   `json:"kind,omitempty" jsonschema:"restrict to fixed or mobile sellers"`
}

// MatchSellersOutput is the output schema for the match_sellers tool.
type MatchSellersOutput struct {
	Candidates []CandidateOutput `json:"candidates"`
	Count      int               `json:"count"`
}

// DispatchInput is the input schema for the dispatch_delivery tool.
type DispatchInput struct {
	Latitude    float64  `json:"latitude" jsonschema:"buyer latitude in degrees"`
	Longitude   float64  `json:"longitude" jsonschema:"buyer longitude in degrees"`
	SellerID    string   `json:"seller_id" jsonschema:"ID of the mobile seller to dispatch"`
	Items       []string `json:"items" jsonschema:"item names to deliver"`
	RequesterID string   `json:"requester_id,omitempty" jsonschema:"buyer ID (default guest)"`
}

// RecordDemandInput is the input schema for the record_unmet_demand tool.
type RecordDemandInput struct {
	Latitude  float64  `json:"latitude" jsonschema:"buyer latitude in degrees"`
	Longitude float64  `json:"longitude" jsonschema:"buyer longitude in degrees"`
	Items     []string `json:"items" jsonschema:"item names nobody could supply"`
}

// RecordDemandOutput is the output schema for the record_unmet_demand tool.
type RecordDemandOutput struct {
	Recorded []string `json:"recorded"`
}

// NearbyInput is the input schema for the nearby_sellers tool.
type NearbyInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"buyer latitude in degrees"`
	Longitude float64 `json:"longitude" jsonschema:"buyer longitude in degrees"`
	RadiusKm  float64 `json:"radius_km,omitempty" jsonschema:"search radius in km (default from settings)"`
	Query     string  `json:"query,omitempty" jsonschema:"only sellers with an item containing this text"`
}

// NearbyOutput is the output schema for the nearby_sellers tool.
type NearbyOutput struct {
	Sellers []NearbySellerOutput `json:"sellers"`
	Count   int                  `json:"count"`
}

// NearbySellerOutput is one seller within the radius.
type NearbySellerOutput struct {
	SellerID   string   `json:"seller_id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Rating     float64  `json:"rating"`
	DistanceKm float64  `json:"distance_km"`
	Items      []string `json:"items"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "smartbuy",
		Description: "Find and rank nearby sellers for a free-text buyer request",
	}, s.handleSmartBuy)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "match_sellers",
		Description: "Rank sellers carrying the given items by distance and coverage",
	}, s.handleMatchSellers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "nearby_sellers",
		Description: "List active sellers near a location, optionally filtered by item",
	}, s.handleNearby)

	if s.ports.Parser != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "parse_demand",
			Description: "Extract items, quantities and delivery intent from a buyer request",
		}, s.handleParseDemand)
	}

	if s.ports.Dispatch != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "dispatch_delivery",
			Description: "Offer a delivery to a mobile seller and report the outcome",
		}, s.handleDispatch)
	}

	if s.ports.Demand != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "record_unmet_demand",
			Description: "Record items that no nearby seller could supply",
		}, s.handleRecordDemand)
	}
}

func (s *Server) handleParseDemand(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseDemandInput,
) (*mcp.CallToolResult, ParseDemandOutput, error) {
	if s.ports.Parser == nil {
		return nil, ParseDemandOutput{}, errToolUnavailable
	}

	demand, err := s.ports.Parser.Parse(ctx, input.Text)
	var pf *domain.ParseFailure
	if err != nil && !errors.As(err, &pf) {
		return nil, ParseDemandOutput{}, err
	}

	output := ParseDemandOutput{Demand: *demand}
	if pf != nil {
		output.Suggestions = pf.Suggestions
	}
	return nil, output, nil
}

func (s *Server) handleSmartBuy(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SmartBuyInput,
) (*mcp.CallToolResult, SmartBuyOutput, error) {
	location, err := domain.NewCoordinate(input.Latitude, input.Longitude)
	if err != nil {
		return nil, SmartBuyOutput{}, err
	}

	result, err := s.ports.SmartBuy.SmartBuy(ctx, input.Text, location)
	if err != nil {
		var pf *domain.ParseFailure
		if errors.As(err, &pf) {
			return nil, SmartBuyOutput{
				Message:     "Sorry, I could not understand that request.",
				NoMatches:   true,
				Suggestions: pf.Suggestions,
			}, nil
		}
		return nil, SmartBuyOutput{}, err
	}

	return nil, SmartBuyOutput{
		Message:         result.Message,
		Items:           result.Demand.ItemNames(),
		Delivery:        result.Demand.DeliveryRequested,
		Recommendations: candidateOutputs(result.Recommendations),
		UnmetItems:      result.UnmetItems,
		NoMatches:       result.NoMatches,
	}, nil
}

func (s *Server) handleMatchSellers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MatchSellersInput,
) (*mcp.CallToolResult, MatchSellersOutput, error) {
	location, err := domain.NewCoordinate(input.Latitude, input.Longitude)
	if err != nil {
		return nil, MatchSellersOutput{}, err
	}
	items := demandItems(input.Items)
	if len(items) == 0 {
		return nil, MatchSellersOutput{}, fmt.Errorf("%w: no items given", domain.ErrInvalidInput)
	}

	var kind *domain.SellerKind
	if input.Kind != "" {
		k, err := domain.ParseSellerKind(input.Kind)
		if err != nil {
			return nil, MatchSellersOutput{}, fmt.Errorf("kind %q: %w", input.Kind, err)
		}
		kind = &k
	}

	candidates, err := s.ports.Matching.Match(ctx, items, location, kind)
	if err != nil {
		return nil, MatchSellersOutput{}, err
	}
	return nil, MatchSellersOutput{
		Candidates: candidateOutputs(candidates),
		Count:      len(candidates),
	}, nil
}

func (s *Server) handleNearby(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input NearbyInput,
) (*mcp.CallToolResult, NearbyOutput, error) {
	location, err := domain.NewCoordinate(input.Latitude, input.Longitude)
	if err != nil {
		return nil, NearbyOutput{}, err
	}

	var sellers []domain.NearbySeller
	if strings.TrimSpace(input.Query) != "" {
		sellers, err = s.ports.Matching.Search(ctx, input.Query, location, input.RadiusKm)
	} else {
		sellers, err = s.ports.Matching.Nearby(ctx, location, input.RadiusKm)
	}
	if err != nil {
		return nil, NearbyOutput{}, err
	}

	output := NearbyOutput{
		Sellers: make([]NearbySellerOutput, len(sellers)),
		Count:   len(sellers),
	}
	for i := range sellers {
		names := make([]string, len(sellers[i].Items))
		for j := range sellers[i].Items {
			names[j] = sellers[i].Items[j].Name
		}
		output.Sellers[i] = NearbySellerOutput{
			SellerID:   sellers[i].Seller.ID,
			Name:       sellers[i].Seller.Name,
			Kind:       sellers[i].Seller.Kind.String(),
			Rating:     sellers[i].Seller.Rating,
			DistanceKm: sellers[i].DistanceKm,
			Items:      names,
		}
	}
	return nil, output, nil
}

func (s *Server) handleDispatch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DispatchInput,
) (*mcp.CallToolResult, domain.DispatchResult, error) {
	if s.ports.Dispatch == nil {
		return nil, domain.DispatchResult{}, errToolUnavailable
	}
	location, err := domain.NewCoordinate(input.Latitude, input.Longitude)
	if err != nil {
		return nil, domain.DispatchResult{}, err
	}

	result, err := s.ports.Dispatch.Dispatch(ctx, domain.DispatchRequest{
		SellerID:    input.SellerID,
		RequesterID: input.RequesterID,
		Items:       demandItems(input.Items),
		Location:    location,
	})
	if err != nil {
		return nil, domain.DispatchResult{}, err
	}
	return nil, *result, nil
}

func (s *Server) handleRecordDemand(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecordDemandInput,
) (*mcp.CallToolResult, RecordDemandOutput, error) {
	if s.ports.Demand == nil {
		return nil, RecordDemandOutput{}, errToolUnavailable
	}
	location, err := domain.NewCoordinate(input.Latitude, input.Longitude)
	if err != nil {
		return nil, RecordDemandOutput{}, err
	}

	var names []string
	for _, item := range demandItems(input.Items) {
		names = append(names, item.Name)
	}
	if len(names) == 0 {
		return nil, RecordDemandOutput{}, fmt.Errorf("%w: no items given", domain.ErrInvalidInput)
	}
	if err := s.ports.Demand.Record(ctx, names, location); err != nil {
		return nil, RecordDemandOutput{}, err
	}
	return nil, RecordDemandOutput{Recorded: names}, nil
}

func candidateOutputs(candidates []domain.MatchCandidate) []CandidateOutput {
	out := make([]CandidateOutput, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		out[i] = CandidateOutput{
			SellerID:   c.Seller.ID,
			Name:       c.Seller.Name,
			Kind:       c.Seller.Kind.String(),
			Contact:    c.Seller.Contact,
			Rating:     c.Seller.Rating,
			DistanceKm: c.DistanceKm,
			Items:      c.ItemNames(),
			TotalPrice: c.TotalPrice.StringFixed(2),
			MatchScore: c.MatchScore,
			AIScore:    c.AIScore,
		}
	}
	return out
}

// demandItems trims names and drops blanks.
func demandItems(names []string) []domain.DemandItem {
	items := make([]domain.DemandItem, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		items = append(items, domain.DemandItem{
			Name:       n,
			Quantity:   domain.DefaultQuantity,
			Unit:       "kg",
			Category:   domain.CategoryGeneral,
			Confidence: 1,
		})
	}
	return items
}
