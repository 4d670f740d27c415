package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendee/vendee/internal/core/domain"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "vendee", rootCmd.Use)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{
		"smartbuy", "parse", "match", "nearby", "search", "leaderboard", "dispatch",
		"requests", "demand", "seller", "catalog", "settings", "mcp", "tui", "version",
	} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestCommands_ServiceNotConfigured(t *testing.T) {
	SetServices(&Services{})
	defer resetFlags(rootCmd)

	tests := []struct {
		args []string
		want string
	}{
		{withLocation("smartbuy", "bananas"), "smartbuy service not configured"},
		{[]string{"parse", "bananas"}, "parser service not configured"},
		{withLocation("match", "banana"), "matching service not configured"},
		{withLocation("nearby"), "matching service not configured"},
		{withLocation("dispatch", "V001", "--items", "banana"), "dispatch service not configured"},
		{[]string{"demand", "list"}, "demand tracker not configured"},
		{[]string{"seller", "list"}, "seller service not configured"},
		{[]string{"catalog", "import", "x.toml"}, "catalog service not configured"},
		{[]string{"settings", "show"}, "settings service not configured"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args[:2], " "), func(t *testing.T) {
			_, err := runCmd(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSmartBuyCmd_Recommends(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("smartbuy", "I want 2 kg bananas delivered")...)

	assert.Contains(t, out, "Request: 2 kg banana")
	assert.Contains(t, out, "Delivery requested")
	assert.Contains(t, out, "I found 2 great sellers")
	assert.Contains(t, out, "Ravi Cart")
	assert.Contains(t, out, "Lakshmi Stall")
}

func TestSmartBuyCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("smartbuy", "2 kg bananas", "--json")...)

	var result domain.SmartBuyResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Matches, 2)
	assert.Len(t, result.Recommendations, 2)
	assert.False(t, result.NoMatches)
}

func TestSmartBuyCmd_ParseFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("smartbuy", "hello there")...)

	assert.Contains(t, out, "could not understand")
	assert.Contains(t, out, "Try: 'I want 2 kg bananas'")
}

func TestSmartBuyCmd_NoMatchesRecordsDemand(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("smartbuy", "need a marigold garland")...)
	assert.Contains(t, out, "Sorry, I couldn't find any sellers selling marigold")

	out = requireRun(t, "demand", "list")
	assert.Contains(t, out, "marigold")
}

func TestSmartBuyCmd_RequiresLocation(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := runCmd(t, "smartbuy", "bananas")
	assert.ErrorIs(t, err, errLocationRequired)

	_, err = runCmd(t, "smartbuy", "bananas", "--lat", "95", "--lng", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)
}

func TestParseCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, "parse", "urgent", "6", "pieces", "of", "mango")
	assert.Contains(t, out, "mango: 6 pieces")
	assert.Contains(t, out, "Urgent: true")

	out = requireRun(t, "parse", "nothing useful")
	assert.Contains(t, out, "No items recognised.")
}

func TestMatchCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("match", "banana")...)
	assert.Contains(t, out, "Matches")
	assert.Less(t, strings.Index(out, "Lakshmi Stall"), strings.Index(out, "Ravi Cart"))

	out = requireRun(t, withLocation("match", "banana", "--kind", "mobile")...)
	assert.Contains(t, out, "Ravi Cart")
	assert.NotContains(t, out, "Lakshmi Stall")

	out = requireRun(t, withLocation("match", "durian")...)
	assert.Contains(t, out, "No matching sellers found.")
}

func TestMatchCmd_Separated(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("match", "banana,tomato", "--separated", "--json")...)

	var sep domain.SeparatedMatches
	require.NoError(t, json.Unmarshal([]byte(out), &sep))
	require.Len(t, sep.Fixed, 1)
	require.Len(t, sep.Mobile, 1)
	assert.Equal(t, "V002", sep.Fixed[0].Seller.ID)
	assert.Equal(t, "V001", sep.Mobile[0].Seller.ID)
}

func TestMatchCmd_Recommend(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("match", "banana", "--recommend")...)
	assert.Contains(t, out, "score")
}

func TestMatchCmd_InvalidKind(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := runCmd(t, withLocation("match", "banana", "--kind", "flying")...)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNearbyCmds(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("nearby")...)
	assert.Less(t, strings.Index(out, "Lakshmi Stall"), strings.Index(out, "Ravi Cart"))

	out = requireRun(t, withLocation("nearby", "--radius", "0.5")...)
	assert.Contains(t, out, "Lakshmi Stall")
	assert.NotContains(t, out, "Ravi Cart")

	out = requireRun(t, withLocation("search", "TOMA")...)
	assert.Contains(t, out, "Ravi Cart")
	assert.NotContains(t, out, "Lakshmi Stall")

	out = requireRun(t, withLocation("leaderboard")...)
	assert.Less(t, strings.Index(out, "Ravi Cart"), strings.Index(out, "Lakshmi Stall"))
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := runCmd(t, withLocation("search")...)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDispatchCmd_Accepted(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("dispatch", "V001", "--items", "banana,tomato")...)
	assert.Contains(t, out, "Great! Ravi Cart has accepted your delivery request.")
	assert.Contains(t, out, "Contact: +91-111")
	assert.Contains(t, out, "ETA:")

	out = requireRun(t, "requests")
	assert.Contains(t, out, "accepted")
	assert.Contains(t, out, "Ravi Cart")
	assert.Contains(t, out, "guest")
	assert.Contains(t, out, "banana, tomato")
}

func TestDispatchCmd_ForcedReject(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("dispatch", "V001", "--items", "banana", "--reject")...)
	assert.Contains(t, out, "Ravi Cart is currently busy")

	out = requireRun(t, "requests")
	assert.Contains(t, out, "No delivery requests.")
}

func TestDispatchCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("dispatch", "V001", "--items", "banana", "--accept", "--requester", "U7", "--json")...)

	var result domain.DispatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, domain.OfferAccepted, result.Status)
	assert.NotEmpty(t, result.RequestID)
	assert.Equal(t, "+91-111", result.SellerContact)
}

func TestDispatchCmd_Errors(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"fixed seller", withLocation("dispatch", "V002", "--items", "banana"), domain.ErrInvalidSellerType},
		{"unknown seller", withLocation("dispatch", "V404", "--items", "banana"), domain.ErrNotFound},
		{"no items", withLocation("dispatch", "V001"), domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDispatchCmd_AcceptAndRejectExclusive(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := runCmd(t, withLocation("dispatch", "V001", "--items", "banana", "--accept", "--reject")...)
	assert.Error(t, err)
}

func TestDemandCmds(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("demand", "record", "lily", "jasmine")...)
	assert.Contains(t, out, "Recorded demand for lily, jasmine")

	out = requireRun(t, "demand", "list")
	assert.Contains(t, out, "D001")
	assert.Contains(t, out, "lily")
	assert.Contains(t, out, "priority medium")

	out = requireRun(t, "demand", "priority", "lily", "HIGH")
	assert.Contains(t, out, "lily priority set to high")

	out = requireRun(t, "seller", "suggestions")
	assert.Contains(t, out, "1. lily (1 requests)")
	assert.NotContains(t, out, "jasmine")
}

func TestDemandPriorityCmd_Errors(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := runCmd(t, "demand", "priority", "lily", "urgent")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = runCmd(t, "demand", "priority", "lily", "high")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSellerOnboardCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, withLocation("seller", "onboard", "Asha Flowers", "--kind", "moving", "--contact", "+91-333")...)
	assert.Contains(t, out, "Onboarded Asha Flowers as V003 (mobile)")

	out = requireRun(t, "seller", "show", "V003")
	assert.Contains(t, out, "Asha Flowers (V003)")
	assert.Contains(t, out, "Contact: +91-333")
	assert.Contains(t, out, "Hours: 06:00-20:00")
}

func TestSellerStatusCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, "seller", "status", "V001", "--status", "closed")
	assert.Contains(t, out, "V001 is now inactive mobile")

	out = requireRun(t, withLocation("nearby")...)
	assert.NotContains(t, out, "Ravi Cart")

	_, err := runCmd(t, "seller", "status", "V001", "--kind", "flying")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSellerRateCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, "seller", "rate", "V002", "5")
	assert.Contains(t, out, "V002 rating is now 5.00 (1 ratings)")

	_, err := runCmd(t, "seller", "rate", "V002", "great")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSellerInventoryCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, "seller", "inventory", "V002")
	assert.Contains(t, out, "banana: 20 kg at 40.00/kg")

	out = requireRun(t, "seller", "inventory", "V002", "--item", "mango:3 kg:60", "--item", "rose:20:10:piece")
	assert.Contains(t, out, "Inventory of V002 (2 items, value 70.00)")
	assert.Contains(t, out, "rose: 20 at 10.00/piece")

	_, err := runCmd(t, "seller", "inventory", "V002", "--item", "mango")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = runCmd(t, "seller", "inventory", "V002", "--item", "mango:3 kg:cheap")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSellerDetectCmd_NoDetector(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	image := filepath.Join(t.TempDir(), "cart.jpg")
	require.NoError(t, os.WriteFile(image, []byte{0xff, 0xd8}, 0o600))

	_, err := runCmd(t, "seller", "detect", "V001", image)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image detection is not configured")
}

func TestSellerListAndAnalyticsCmds(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out := requireRun(t, "seller", "list")
	assert.Contains(t, out, "V001")
	assert.Contains(t, out, "V002")

	out = requireRun(t, "seller", "analytics", "V001")
	assert.Contains(t, out, "Items: 2, estimated value 80.00")

	out = requireRun(t, "seller", "show", "V001", "--json")
	var seller domain.Seller
	require.NoError(t, json.Unmarshal([]byte(out), &seller))
	assert.Equal(t, "Ravi Cart", seller.Name)

	_, err := runCmd(t, "seller", "show", "V404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

const testCatalog = `
[[sellers]]
id = "C001"
name = "Green Basket"
kind = "fixed"
latitude = 12.901
longitude = 77.58

[[sellers.items]]
name = "coriander"
quantity = "3 bunch"
unit = "bunch"
price = "10"
`

func TestCatalogImportCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))

	out := requireRun(t, "catalog", "import", path)
	assert.Contains(t, out, "Imported 1 sellers and 1 inventories")

	out = requireRun(t, withLocation("search", "coriander")...)
	assert.Contains(t, out, "Green Basket")
}

func TestCatalogImportCmd_Missing(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := runCmd(t, "catalog", "import", filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
