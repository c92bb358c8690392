package kafka

import (
	"time"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
)

// MovementRecordedEvent announces a committed stock movement
type MovementRecordedEvent struct {
	EventID       string              `json:"event_id"`
	EventType     string              `json:"event_type"`
	MovementID    string              `json:"movement_id"`
	CommodityID   string              `json:"commodity_id"`
	CommodityName string              `json:"commodity_name"`
	Kind          domain.MovementKind `json:"movement_type"`
	Quantity      int                 `json:"quantity"`
	Delta         int                 `json:"delta"`
	PreviousStock int                 `json:"previous_stock"`
	NewStock      int                 `json:"new_stock"`
	Status        domain.Status       `json:"status"`
	Reason        string              `json:"reason"`
	PerformedBy   string              `json:"performed_by"`
	Timestamp     time.Time           `json:"timestamp"`
}

// AlertRaisedEvent announces a newly generated alert
type AlertRaisedEvent struct {
	EventID     string           `json:"event_id"`
	EventType   string           `json:"event_type"`
	AlertID     string           `json:"alert_id"`
	CommodityID string           `json:"commodity_id"`
	AlertType   domain.AlertKind `json:"alert_type"`
	Message     string           `json:"message"`
	Timestamp   time.Time        `json:"timestamp"`
}

// CommodityConsumedEvent is sent by external systems that used up stock
type CommodityConsumedEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	CommodityID string    `json:"commodity_id"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
	PerformedBy string    `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeMovementRecorded  = "stock.movement_recorded"
	EventTypeAlertRaised       = "stock.alert_raised"
	EventTypeCommodityConsumed = "commodity.consumed"
)

// Kafka topics
const (
	TopicStockMovements       = "stock-movements"
	TopicStockAlerts          = "stock-alerts"
	TopicCommodityConsumption = "commodity-consumption"
)

func newMovementRecordedEvent(m domain.StockMovement, c domain.Commodity) MovementRecordedEvent {
	return MovementRecordedEvent{
		MovementID:    m.ID,
		CommodityID:   m.CommodityID,
		CommodityName: c.Name,
		Kind:          m.Kind,
		Quantity:      m.Quantity,
		Delta:         m.Delta,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Status:        c.Status(),
		Reason:        m.Reason,
		PerformedBy:   m.PerformedBy,
		Timestamp:     m.Timestamp,
	}
}

func newAlertRaisedEvent(a domain.Alert) AlertRaisedEvent {
	return AlertRaisedEvent{
		AlertID:     a.ID,
		CommodityID: a.CommodityID,
		AlertType:   a.Kind,
		Message:     a.Message,
		Timestamp:   a.Timestamp,
	}
}
