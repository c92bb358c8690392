package domain

import "time"

// DemoCommodities returns the first-run data set, one commodity per status
func DemoCommodities(now time.Time) []Commodity {
	inputs := []struct {
		id string
		in CommodityInput
	}{
		{"1", CommodityInput{
			Name:         "Steel Rods",
			Category:     "Raw Materials",
			Description:  "10mm steel reinforcement rods",
			CurrentStock: 80,
			MinThreshold: 100,
			MaxThreshold: 500,
			Unit:         "tons",
			UnitPrice:    850,
			Supplier:     "SteelCorp Industries",
		}},
		{"2", CommodityInput{
			Name:         "Concrete Mix",
			Category:     "Raw Materials",
			Description:  "High-grade concrete mix for construction",
			CurrentStock: 200,
			MinThreshold: 150,
			MaxThreshold: 1000,
			Unit:         "bags",
			UnitPrice:    12.50,
			Supplier:     "BuildMaster Supplies",
		}},
		{"3", CommodityInput{
			Name:         "Safety Helmets",
			Category:     "Safety Equipment",
			Description:  "OSHA-compliant safety helmets",
			CurrentStock: 25,
			MinThreshold: 50,
			MaxThreshold: 200,
			Unit:         "pieces",
			UnitPrice:    35,
			Supplier:     "SafetyFirst Equipment",
		}},
		{"4", CommodityInput{
			Name:         "LED Light Bulbs",
			Category:     "Electrical",
			Description:  "60W equivalent LED bulbs",
			CurrentStock: 850,
			MinThreshold: 100,
			MaxThreshold: 500,
			Unit:         "pieces",
			UnitPrice:    8.99,
			Supplier:     "BrightLights Co.",
		}},
	}

	commodities := make([]Commodity, 0, len(inputs))
	for _, item := range inputs {
		c, err := NewCommodity(item.id, item.in, now)
		if err != nil {
			// the demo set is static and valid
			panic(err)
		}
		commodities = append(commodities, c)
	}
	return commodities
}
