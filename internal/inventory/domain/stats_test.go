package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalValue(t *testing.T) {
	assert.Equal(t, 0.0, TotalValue(nil))

	commodities := DemoCommodities(time.Now())
	// 80*850 + 200*12.5 + 25*35 + 850*8.99
	assert.Equal(t, 79016.5, TotalValue(commodities))

	in := validInput()
	in.CurrentStock = 10
	in.UnitPrice = 5
	extra, err := NewCommodity("x", in, time.Now())
	require.NoError(t, err)

	assert.Equal(t, TotalValue(commodities)+50, TotalValue(append(commodities, extra)))
}

func TestHistograms(t *testing.T) {
	commodities := DemoCommodities(time.Now())

	assert.Equal(t, map[string]int{"Raw Materials": 2, "Safety Equipment": 1, "Electrical": 1}, CategoryHistogram(commodities))

	empty := StatusHistogram(nil)
	assert.Len(t, empty, 4)
	for _, s := range Statuses {
		assert.Zero(t, empty[s])
	}
}

func TestSummarize(t *testing.T) {
	commodities := DemoCommodities(time.Now())
	alerts := []Alert{{ID: "a1", Acknowledged: true}, {ID: "a2"}}

	s := Summarize(commodities, alerts)
	assert.Equal(t, 4, s.TotalCommodities)
	assert.Equal(t, 2, s.LowStockCount)
	assert.Equal(t, 1, s.UnacknowledgedAlerts)
	assert.Equal(t, 1, s.ByStatus[StatusOverstocked])
}
