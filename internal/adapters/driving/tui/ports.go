// Package tui provides an interactive terminal user interface for Vendee.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/vendee/vendee/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// SmartBuy turns typed requests into ranked sellers. Required.
	SmartBuy driving.SmartBuyService

	// Dispatch offers deliveries to mobile sellers. Optional.
	Dispatch driving.DispatchService

	// Settings backs the settings view. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	smartBuy driving.SmartBuyService,
	dispatch driving.DispatchService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		SmartBuy: smartBuy,
		Dispatch: dispatch,
		Settings: settings,
	}
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.SmartBuy == nil {
		return ErrMissingSmartBuyService
	}
	return nil
}
