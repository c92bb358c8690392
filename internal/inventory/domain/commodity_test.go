package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() CommodityInput {
	return CommodityInput{
		Name:         "Gloves",
		Category:     "Safety Equipment",
		CurrentStock: 300,
		MinThreshold: 100,
		MaxThreshold: 500,
		Unit:         "pairs",
		UnitPrice:    4.5,
		Supplier:     "SafetyFirst Equipment",
	}
}

func TestNewCommodityDerivesStatus(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	c, err := NewCommodity("c1", validInput(), now)
	require.NoError(t, err)
	assert.Equal(t, StatusNormal, c.Status())
	assert.Equal(t, now, c.LastUpdated)
}

func TestNewCommodityValidation(t *testing.T) {
	in := CommodityInput{
		Name:         " ",
		CurrentStock: -1,
		MinThreshold: -5,
		MaxThreshold: -5,
		UnitPrice:    0,
	}

	_, err := NewCommodity("c1", in, time.Now())
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Name is required", ve.Fields["name"])
	assert.Contains(t, ve.Fields, "category")
	assert.Contains(t, ve.Fields, "unit")
	assert.Contains(t, ve.Fields, "supplier")
	assert.Equal(t, "Stock cannot be negative", ve.Fields["currentStock"])
	assert.Equal(t, "Min threshold cannot be negative", ve.Fields["minThreshold"])
	assert.Equal(t, "Max threshold must be greater than min threshold", ve.Fields["maxThreshold"])
	assert.Equal(t, "Unit price must be greater than 0", ve.Fields["unitPrice"])
}

func TestApplyRecomputesStatusAndRevalidates(t *testing.T) {
	c, err := NewCommodity("c1", validInput(), time.Now())
	require.NoError(t, err)

	stock := 40
	updated, err := c.Apply(CommodityPatch{CurrentStock: &stock}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusCritical, updated.Status())
	assert.Equal(t, "c1", updated.ID)

	max := 50
	_, err = c.Apply(CommodityPatch{MaxThreshold: &max}, time.Now())
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestCommodityJSONRederivesStatus(t *testing.T) {
	raw := `{"id":"9","name":"Bolts","category":"Hardware","currentStock":10,"minThreshold":100,` +
		`"maxThreshold":500,"unit":"boxes","unitPrice":2,"supplier":"X","lastUpdated":"2025-01-02T03:04:05Z","status":"normal"}`

	var c Commodity
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, StatusCritical, c.Status())
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), c.LastUpdated.UTC())

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"status":"critical"`)
	assert.Contains(t, string(out), `"currentStock":10`)
}

func TestDemoCommoditiesSpanEveryStatus(t *testing.T) {
	demo := DemoCommodities(time.Now())
	hist := StatusHistogram(demo)
	for _, s := range Statuses {
		assert.Equal(t, 1, hist[s], "status %s", s)
	}

	want := map[string]Status{
		"Steel Rods":      StatusLow,
		"Concrete Mix":    StatusNormal,
		"Safety Helmets":  StatusCritical,
		"LED Light Bulbs": StatusOverstocked,
	}
	for _, c := range demo {
		assert.Equal(t, want[c.Name], c.Status(), c.Name)
	}
	assert.Equal(t, 80, demo[0].CurrentStock)
	assert.InDelta(t, 79016.5, TotalValue(demo), 0.001)
}
