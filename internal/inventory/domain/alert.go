package domain

import (
	"fmt"
	"time"
)

// AlertKind identifies the condition an alert reports
type AlertKind string

const (
	AlertLowStock      AlertKind = "low_stock"
	AlertCriticalStock AlertKind = "critical_stock"
	// AlertOverstocked is never generated; it is kept so stored records decode.
	AlertOverstocked AlertKind = "overstocked"
)

// Alert is a generated notification tied to a commodity
type Alert struct {
	ID           string    `json:"id"`
	CommodityID  string    `json:"commodityId"`
	Kind         AlertKind `json:"type"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
}

// ScanAlerts returns the alerts to add for commodities that are critical or
// low. A commodity that already has an unacknowledged alert, of any kind, is
// skipped. Alerts produced earlier in the same scan count as existing.
func ScanAlerts(commodities []Commodity, existing []Alert, now time.Time, newID func() string) []Alert {
	open := make(map[string]bool, len(existing))
	for _, a := range existing {
		if !a.Acknowledged {
			open[a.CommodityID] = true
		}
	}

	var created []Alert
	for _, c := range commodities {
		var kind AlertKind
		var message string

		switch c.Status() {
		case StatusCritical:
			kind = AlertCriticalStock
			message = fmt.Sprintf("%s is critically low (%d %s)", c.Name, c.CurrentStock, c.Unit)
		case StatusLow:
			kind = AlertLowStock
			message = fmt.Sprintf("%s is running low (%d %s)", c.Name, c.CurrentStock, c.Unit)
		default:
			continue
		}

		if open[c.ID] {
			continue
		}

		created = append(created, Alert{
			ID:          newID(),
			CommodityID: c.ID,
			Kind:        kind,
			Message:     message,
			Timestamp:   now,
		})
		open[c.ID] = true
	}

	return created
}

// AcknowledgeAlert returns a copy of alerts with the given alert acknowledged.
// changed is false when the alert was already acknowledged.
func AcknowledgeAlert(alerts []Alert, id string) (updated []Alert, changed bool, err error) {
	for i, a := range alerts {
		if a.ID != id {
			continue
		}
		if a.Acknowledged {
			return alerts, false, nil
		}

		updated = make([]Alert, len(alerts))
		copy(updated, alerts)
		updated[i].Acknowledged = true
		return updated, true, nil
	}
	return alerts, false, ErrAlertNotFound
}
