package domain

import (
	"sort"
	"time"
)

// DefaultTrendDays is the window used when none is requested
const DefaultTrendDays = 7

const day = 24 * time.Hour

// Trend reconstructs one stock level per day for the last windowDays days,
// oldest first. The level starts at the previousStock of the earliest movement
// in the window and takes the newStock of the last movement of each day; days
// without movements carry the previous level forward.
func Trend(movements []StockMovement, commodityID string, now time.Time, windowDays int) []int {
	if windowDays <= 0 {
		return []int{}
	}

	cutoff := now.Add(-time.Duration(windowDays) * day)

	var relevant []StockMovement
	for _, m := range movements {
		if m.CommodityID == commodityID && !m.Timestamp.Before(cutoff) {
			relevant = append(relevant, m)
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Timestamp.Before(relevant[j].Timestamp)
	})

	level := 0
	if len(relevant) > 0 {
		level = relevant[0].PreviousStock
	}

	series := make([]int, 0, windowDays)
	next := 0
	for i := 0; i < windowDays; i++ {
		dayEnd := cutoff.Add(time.Duration(i+1) * day)
		for next < len(relevant) && relevant[next].Timestamp.Before(dayEnd) {
			level = relevant[next].NewStock
			next++
		}
		series = append(series, level)
	}

	return series
}
