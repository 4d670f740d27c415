// Package mcp provides an MCP (Model Context Protocol) server adapter for Vendee.
// It lets AI assistants parse buyer demand, find sellers and dispatch deliveries.
package mcp

import "errors"

// ErrMissingSmartBuyService is returned when the smartbuy service is not provided.
var ErrMissingSmartBuyService = errors.New("mcp: smartbuy service is required")

// ErrMissingMatchingService is returned when the matching service is not provided.
var ErrMissingMatchingService = errors.New("mcp: matching service is required")

// errToolUnavailable is returned by tools whose optional port is not wired.
var errToolUnavailable = errors.New("tool not available in this configuration")
