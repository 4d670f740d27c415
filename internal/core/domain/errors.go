package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates a required port was not wired.
	ErrNotImplemented = errors.New("not implemented")

	// Matching Errors.

	// ErrParseFailure indicates no items could be extracted from a demand.
	// It is recoverable: callers should show example phrasings.
	ErrParseFailure = errors.New("could not understand request")

	// ErrInvalidSellerType indicates the dispatch target is not a mobile seller.
	ErrInvalidSellerType = errors.New("seller is not a mobile seller")

	// ErrInvalidLocation indicates a missing or out-of-range coordinate.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrNoMatches indicates no seller carries any requested item.
	// It is recoverable and triggers demand tracking.
	ErrNoMatches = errors.New("no matching sellers")

	// Storage Errors.

	// ErrDataIntegrity indicates a stored record is malformed.
	// It is reported separately from user input errors.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrConflict indicates a concurrent write won and retries were exhausted.
	ErrConflict = errors.New("concurrent update conflict")
)

// DefaultParseSuggestions are the example phrasings returned with a ParseFailure.
var DefaultParseSuggestions = []string{
	"Try: 'I want 2 kg bananas'",
	"Try: 'Need tomatoes and onions delivered'",
	"Try: 'Looking for fresh vegetables'",
}

// ParseFailure is returned when a demand text yields zero items.
type ParseFailure struct {
	// Text is the normalised text that failed to parse.
	Text string

	// Suggestions are example phrasings the caller can show.
	Suggestions []string
}

// Error implements the error interface.
func (f *ParseFailure) Error() string {
	if len(f.Suggestions) == 0 {
		return ErrParseFailure.Error()
	}
	return fmt.Sprintf("%s (%s)", ErrParseFailure.Error(), strings.Join(f.Suggestions, "; "))
}

// Is reports whether target is ErrParseFailure.
func (f *ParseFailure) Is(target error) bool {
	return target == ErrParseFailure
}

// NewParseFailure creates a ParseFailure with the default suggestions.
func NewParseFailure(text string) *ParseFailure {
	suggestions := make([]string, len(DefaultParseSuggestions))
	copy(suggestions, DefaultParseSuggestions)
	return &ParseFailure{Text: text, Suggestions: suggestions}
}

// IntegrityError wraps ErrDataIntegrity with the offending record.
func IntegrityError(record, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrDataIntegrity, record, reason)
}

// IsUserError reports whether err is a recoverable input-side failure
// rather than a storage or integrity problem.
func IsUserError(err error) bool {
	return errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidSellerType) ||
		errors.Is(err, ErrInvalidLocation) ||
		errors.Is(err, ErrNoMatches) ||
		errors.Is(err, ErrInvalidInput)
}
