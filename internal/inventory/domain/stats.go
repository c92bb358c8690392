package domain

import "github.com/shopspring/decimal"

// Summary is the dashboard readout over the current collections
type Summary struct {
	TotalCommodities     int            `json:"totalCommodities"`
	TotalValue           float64        `json:"totalValue"`
	LowStockCount        int            `json:"lowStockCount"`
	UnacknowledgedAlerts int            `json:"unacknowledgedAlerts"`
	ByCategory           map[string]int `json:"byCategory"`
	ByStatus             map[Status]int `json:"byStatus"`
}

// TotalValue sums currentStock * unitPrice over all commodities
func TotalValue(commodities []Commodity) float64 {
	total := decimal.Zero
	for _, c := range commodities {
		total = total.Add(decimal.NewFromInt(int64(c.CurrentStock)).Mul(decimal.NewFromFloat(c.UnitPrice)))
	}
	return total.InexactFloat64()
}

// CategoryHistogram counts commodities per category
func CategoryHistogram(commodities []Commodity) map[string]int {
	counts := make(map[string]int)
	for _, c := range commodities {
		counts[c.Category]++
	}
	return counts
}

// StatusHistogram counts commodities per status, with every status present
func StatusHistogram(commodities []Commodity) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, c := range commodities {
		counts[c.Status()]++
	}
	return counts
}

// Summarize builds the dashboard summary
func Summarize(commodities []Commodity, alerts []Alert) Summary {
	byStatus := StatusHistogram(commodities)

	unacknowledged := 0
	for _, a := range alerts {
		if !a.Acknowledged {
			unacknowledged++
		}
	}

	return Summary{
		TotalCommodities:     len(commodities),
		TotalValue:           TotalValue(commodities),
		LowStockCount:        byStatus[StatusLow] + byStatus[StatusCritical],
		UnacknowledgedAlerts: unacknowledged,
		ByCategory:           CategoryHistogram(commodities),
		ByStatus:             byStatus,
	}
}
