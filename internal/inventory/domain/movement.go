package domain

import "time"

// MovementKind is the direction of a stock movement
type MovementKind string

const (
	MovementInbound    MovementKind = "in"
	MovementOutbound   MovementKind = "out"
	MovementAdjustment MovementKind = "adjustment"
)

// Default reasons recorded when the caller gives none
const (
	ReasonReplenishment = "Stock replenishment"
	ReasonConsumption   = "Stock consumption"
	ReasonAdjustment    = "Stock count adjustment"
)

// Valid reports whether k is a known movement kind
func (k MovementKind) Valid() bool {
	switch k {
	case MovementInbound, MovementOutbound, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement is an immutable ledger entry. Quantity is what the caller
// asked for; Delta is the change actually applied, so NewStock always equals
// PreviousStock + Delta even when an outbound movement was clamped at zero.
type StockMovement struct {
	ID            string       `json:"id"`
	CommodityID   string       `json:"commodityId"`
	Kind          MovementKind `json:"type"`
	Quantity      int          `json:"quantity"`
	Delta         int          `json:"delta"`
	Reason        string       `json:"reason"`
	PerformedBy   string       `json:"performedBy"`
	Timestamp     time.Time    `json:"timestamp"`
	PreviousStock int          `json:"previousStock"`
	NewStock      int          `json:"newStock"`
}

// Clamped reports whether the movement applied less than was requested
func (m StockMovement) Clamped() bool {
	return m.Kind == MovementOutbound && -m.Delta < m.Quantity
}

// MovementRequest describes a stock change to record
type MovementRequest struct {
	CommodityID string       `json:"commodityId"`
	Kind        MovementKind `json:"type"`
	Quantity    int          `json:"quantity"`
	Reason      string       `json:"reason"`
	PerformedBy string       `json:"performedBy"`
}

// Validate rejects unknown kinds and quantities below one. An adjustment may
// record a count of zero.
func (r MovementRequest) Validate() error {
	errs := fieldErrors{}
	errs.require("commodityId", r.CommodityID, "Commodity is required")
	errs.check(r.Kind.Valid(), "type", "Movement type must be one of in, out, adjustment")
	if r.Kind == MovementAdjustment {
		errs.check(r.Quantity >= 0, "quantity", "Quantity must not be negative")
	} else {
		errs.check(r.Quantity > 0, "quantity", "Quantity must be greater than 0")
	}
	return errs.err()
}

// ApplyMovement computes the ledger entry for req against c and returns it
// together with the updated commodity. Inbound adds, outbound subtracts and
// stops at zero, adjustment sets the stock to the counted quantity.
func ApplyMovement(c Commodity, req MovementRequest, id string, now time.Time) (StockMovement, Commodity, error) {
	if err := req.Validate(); err != nil {
		return StockMovement{}, Commodity{}, err
	}

	previous := c.CurrentStock
	var next int
	reason := req.Reason

	switch req.Kind {
	case MovementInbound:
		next = previous + req.Quantity
		if reason == "" {
			reason = ReasonReplenishment
		}
	case MovementOutbound:
		next = previous - req.Quantity
		if next < 0 {
			next = 0
		}
		if reason == "" {
			reason = ReasonConsumption
		}
	case MovementAdjustment:
		next = req.Quantity
		if reason == "" {
			reason = ReasonAdjustment
		}
	}

	movement := StockMovement{
		ID:            id,
		CommodityID:   c.ID,
		Kind:          req.Kind,
		Quantity:      req.Quantity,
		Delta:         next - previous,
		Reason:        reason,
		PerformedBy:   req.PerformedBy,
		Timestamp:     now,
		PreviousStock: previous,
		NewStock:      next,
	}

	return movement, c.withStock(next, now), nil
}
