package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/ports/driven"
	"github.com/vendee/vendee/internal/core/ports/driving"
	"github.com/vendee/vendee/internal/logger"
)

// Ensure DispatchService implements the interface.
var _ driving.DispatchService = (*DispatchService)(nil)

// DefaultRequesterID is recorded when a dispatch names no requester.
const DefaultRequesterID = "guest"

// DispatchService offers deliveries to mobile sellers.
//
// A dispatch moves from requested to accepted or rejected exactly once.
// Only accepted dispatches are written to the request log.
type DispatchService struct {
	sellers   driven.SellerStore
	log       driven.RequestLog
	responder driven.SellerResponder
	publisher driven.EventPublisher
	settings  SettingsProvider
	now       func() time.Time
	newID     func() string
}

// NewDispatchService creates a new dispatch service.
// The publisher is optional (can be nil).
func NewDispatchService(
	sellers driven.SellerStore,
	log driven.RequestLog,
	responder driven.SellerResponder,
	publisher driven.EventPublisher,
	settings SettingsProvider,
) *DispatchService {
	if settings == nil {
		settings = StaticSettings(domain.DefaultEngineSettings())
	}
	return &DispatchService{
		sellers:   sellers,
		log:       log,
		responder: responder,
		publisher: publisher,
		settings:  settings,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Dispatch offers the delivery to one mobile seller.
func (s *DispatchService) Dispatch(ctx context.Context, req domain.DispatchRequest) (*domain.DispatchResult, error) {
	logger.Section("Dispatch")
	logger.Debug("Seller: %s, items: %d, location: %s", req.SellerID, len(req.Items), req.Location)

	if err := req.Location.Validate(); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: no items to deliver", domain.ErrInvalidInput)
	}
	if s.responder == nil {
		return nil, fmt.Errorf("seller responder: %w", domain.ErrNotImplemented)
	}

	seller, err := s.sellers.Get(ctx, req.SellerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("seller %s: %w", req.SellerID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get seller: %w", err)
	}
	if !seller.IsMobile() {
		return nil, fmt.Errorf("seller %s is %s: %w", seller.ID, seller.Kind, domain.ErrInvalidSellerType)
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	distance := Distance(req.Location, seller.Location)
	offer := domain.Offer{
		SellerID:   seller.ID,
		SellerName: seller.Name,
		Status:     domain.OfferRequested,
		OfferedAt:  s.now().UTC(),
		ETAMinutes: int(math.Round(distance * settings.MinutesPerKm)),
		DistanceKm: roundTo(distance, 2),
	}
	logger.Debug("Distance: %.2f km, ETA: %d min", offer.DistanceKm, offer.ETAMinutes)

	status, err := s.responder.Respond(ctx, offer)
	if err != nil {
		return nil, fmt.Errorf("seller response: %w", err)
	}
	if !status.IsTerminal() {
		return nil, fmt.Errorf("seller response %q: %w", status, domain.ErrInvalidInput)
	}
	offer.Status = status
	logger.Info("Seller %s %s the offer", seller.ID, status)

	result := &domain.DispatchResult{
		Status:     status,
		SellerID:   seller.ID,
		SellerName: seller.Name,
		ETAMinutes: offer.ETAMinutes,
		DistanceKm: offer.DistanceKm,
	}

	if status == domain.OfferAccepted {
		requester := req.RequesterID
		if requester == "" {
			requester = DefaultRequesterID
		}
		record := domain.DeliveryRequest{
			ID:              s.newID(),
			RequesterID:     requester,
			Location:        req.Location,
			ItemsRequested:  append([]domain.DemandItem(nil), req.Items...),
			Status:          domain.OfferAccepted,
			CreatedAt:       offer.OfferedAt,
			Offers:          []domain.Offer{offer},
			TotalOffersSent: 1,
			MaxRetries:      settings.MaxRetries,
		}
		if err := s.log.Append(ctx, record); err != nil {
			return nil, fmt.Errorf("record delivery request: %w", err)
		}
		result.RequestID = record.ID
		result.SellerContact = seller.Contact
		result.Message = fmt.Sprintf(
			"Great! %s has accepted your delivery request. They will arrive in approximately %d minutes.",
			seller.Name, offer.ETAMinutes)
	} else {
		result.Message = fmt.Sprintf(
			"%s is currently busy and cannot accept your request. Would you like me to find another mobile seller?",
			seller.Name)
	}

	s.publish(ctx, req, result)
	return result, nil
}

// Requests lists accepted delivery requests.
func (s *DispatchService) Requests(ctx context.Context) ([]domain.DeliveryRequest, error) {
	reqs, err := s.log.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list delivery requests: %w", err)
	}
	return reqs, nil
}

// publish emits the dispatch outcome. Failures are logged and dropped.
func (s *DispatchService) publish(ctx context.Context, req domain.DispatchRequest, result *domain.DispatchResult) {
	if s.publisher == nil {
		return
	}
	event := domain.DispatchEvent{
		RequestID:   result.RequestID,
		SellerID:    result.SellerID,
		RequesterID: req.RequesterID,
		Status:      result.Status,
		ETAMinutes:  result.ETAMinutes,
		DistanceKm:  result.DistanceKm,
		ItemCount:   len(req.Items),
		OccurredAt:  s.now().UTC(),
	}
	if err := s.publisher.PublishDispatch(ctx, event); err != nil {
		logger.Warn("Failed to publish dispatch event: %v", err)
	}
}
