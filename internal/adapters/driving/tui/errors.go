package tui

import "errors"

// ErrMissingSmartBuyService is returned when the smart-buy service is not provided.
var ErrMissingSmartBuyService = errors.New("tui: smart-buy service is required")

// ErrInvalidPorts is returned when no ports are provided at all.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
