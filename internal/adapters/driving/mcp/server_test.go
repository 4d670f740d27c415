package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("missing smartbuy service returns error", func(t *testing.T) {
		ports := &Ports{Matching: &mockMatchingService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingSmartBuyService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(requiredPorts())
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("optional ports register extra tools", func(t *testing.T) {
		ports := requiredPorts()
		ports.Parser = &mockParser{}
		ports.Dispatch = &mockDispatchService{}
		ports.Demand = &mockDemandTracker{}
		ports.Seller = &mockSellerService{}

		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("empty ports returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingSmartBuyService)
	})

	t.Run("missing matching service returns error", func(t *testing.T) {
		ports := &Ports{SmartBuy: &mockSmartBuyService{}}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingMatchingService)
	})

	t.Run("required only is valid", func(t *testing.T) {
		err := requiredPorts().Validate()
		assert.NoError(t, err)
	})
}
