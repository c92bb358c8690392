package domain

import (
	"encoding/json"
	"time"
)

// Commodity represents a tracked stock item. Its status is derived from the
// stock numbers and can only change through NewCommodity, Apply or a movement.
type Commodity struct {
	ID           string
	Name         string
	Category     string
	Description  string
	CurrentStock int
	MinThreshold int
	MaxThreshold int
	Unit         string
	UnitPrice    float64
	Supplier     string
	LastUpdated  time.Time

	status Status
}

// CommodityInput holds the editable attributes of a commodity
type CommodityInput struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	CurrentStock int     `json:"currentStock"`
	MinThreshold int     `json:"minThreshold"`
	MaxThreshold int     `json:"maxThreshold"`
	Unit         string  `json:"unit"`
	UnitPrice    float64 `json:"unitPrice"`
	Supplier     string  `json:"supplier"`
}

// CommodityPatch is a partial update; nil fields keep their current value
type CommodityPatch struct {
	Name         *string  `json:"name,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Description  *string  `json:"description,omitempty"`
	CurrentStock *int     `json:"currentStock,omitempty"`
	MinThreshold *int     `json:"minThreshold,omitempty"`
	MaxThreshold *int     `json:"maxThreshold,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	UnitPrice    *float64 `json:"unitPrice,omitempty"`
	Supplier     *string  `json:"supplier,omitempty"`
}

// Validate checks the same rules the add-commodity form enforces
func (in CommodityInput) Validate() error {
	errs := fieldErrors{}
	errs.require("name", in.Name, "Name is required")
	errs.require("category", in.Category, "Category is required")
	errs.require("unit", in.Unit, "Unit is required")
	errs.require("supplier", in.Supplier, "Supplier is required")
	errs.check(in.CurrentStock >= 0, "currentStock", "Stock cannot be negative")
	errs.check(in.MinThreshold >= 0, "minThreshold", "Min threshold cannot be negative")
	errs.check(in.MaxThreshold > in.MinThreshold, "maxThreshold", "Max threshold must be greater than min threshold")
	errs.check(in.UnitPrice > 0, "unitPrice", "Unit price must be greater than 0")
	return errs.err()
}

// NewCommodity validates the input and builds a commodity with its status derived
func NewCommodity(id string, in CommodityInput, now time.Time) (Commodity, error) {
	if err := in.Validate(); err != nil {
		return Commodity{}, err
	}

	c := Commodity{
		ID:           id,
		Name:         in.Name,
		Category:     in.Category,
		Description:  in.Description,
		CurrentStock: in.CurrentStock,
		MinThreshold: in.MinThreshold,
		MaxThreshold: in.MaxThreshold,
		Unit:         in.Unit,
		UnitPrice:    in.UnitPrice,
		Supplier:     in.Supplier,
		LastUpdated:  now,
	}
	c.status = Classify(c.CurrentStock, c.MinThreshold, c.MaxThreshold)
	return c, nil
}

// Status returns the derived status
func (c Commodity) Status() Status {
	return c.status
}

// Input returns the editable attributes of c
func (c Commodity) Input() CommodityInput {
	return CommodityInput{
		Name:         c.Name,
		Category:     c.Category,
		Description:  c.Description,
		CurrentStock: c.CurrentStock,
		MinThreshold: c.MinThreshold,
		MaxThreshold: c.MaxThreshold,
		Unit:         c.Unit,
		UnitPrice:    c.UnitPrice,
		Supplier:     c.Supplier,
	}
}

// Apply merges the patch into c and re-validates the result, so an edit can
// never leave maxThreshold at or below minThreshold.
func (c Commodity) Apply(p CommodityPatch, now time.Time) (Commodity, error) {
	in := c.Input()
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.CurrentStock != nil {
		in.CurrentStock = *p.CurrentStock
	}
	if p.MinThreshold != nil {
		in.MinThreshold = *p.MinThreshold
	}
	if p.MaxThreshold != nil {
		in.MaxThreshold = *p.MaxThreshold
	}
	if p.Unit != nil {
		in.Unit = *p.Unit
	}
	if p.UnitPrice != nil {
		in.UnitPrice = *p.UnitPrice
	}
	if p.Supplier != nil {
		in.Supplier = *p.Supplier
	}
	return NewCommodity(c.ID, in, now)
}

// withStock returns a copy of c holding the new stock level
func (c Commodity) withStock(stock int, now time.Time) Commodity {
	c.CurrentStock = stock
	c.LastUpdated = now
	c.status = Classify(c.CurrentStock, c.MinThreshold, c.MaxThreshold)
	return c
}

type commodityJSON struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	CurrentStock int       `json:"currentStock"`
	MinThreshold int       `json:"minThreshold"`
	MaxThreshold int       `json:"maxThreshold"`
	Unit         string    `json:"unit"`
	UnitPrice    float64   `json:"unitPrice"`
	Supplier     string    `json:"supplier"`
	LastUpdated  time.Time `json:"lastUpdated"`
	Status       Status    `json:"status"`
}

// MarshalJSON writes the stored record shape, status included
func (c Commodity) MarshalJSON() ([]byte, error) {
	return json.Marshal(commodityJSON{
		ID:           c.ID,
		Name:         c.Name,
		Category:     c.Category,
		Description:  c.Description,
		CurrentStock: c.CurrentStock,
		MinThreshold: c.MinThreshold,
		MaxThreshold: c.MaxThreshold,
		Unit:         c.Unit,
		UnitPrice:    c.UnitPrice,
		Supplier:     c.Supplier,
		LastUpdated:  c.LastUpdated,
		Status:       c.status,
	})
}

// UnmarshalJSON reads a stored record. The stored status label is ignored and
// re-derived from the numbers.
func (c *Commodity) UnmarshalJSON(data []byte) error {
	var raw commodityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Commodity{
		ID:           raw.ID,
		Name:         raw.Name,
		Category:     raw.Category,
		Description:  raw.Description,
		CurrentStock: raw.CurrentStock,
		MinThreshold: raw.MinThreshold,
		MaxThreshold: raw.MaxThreshold,
		Unit:         raw.Unit,
		UnitPrice:    raw.UnitPrice,
		Supplier:     raw.Supplier,
		LastUpdated:  raw.LastUpdated,
	}
	c.status = Classify(c.CurrentStock, c.MinThreshold, c.MaxThreshold)
	return nil
}
