package domain

// Status is the derived stock health of a commodity
type Status string

const (
	StatusCritical    Status = "critical"
	StatusLow         Status = "low"
	StatusNormal      Status = "normal"
	StatusOverstocked Status = "overstocked"
)

// Statuses lists every status in severity order
var Statuses = []Status{StatusCritical, StatusLow, StatusNormal, StatusOverstocked}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusCritical, StatusLow, StatusNormal, StatusOverstocked:
		return true
	}
	return false
}

// Classify maps stock numbers to a status. The first matching rule wins:
// at or below half the minimum is critical, at or below the minimum is low,
// at or above the maximum is overstocked, anything else is normal.
func Classify(currentStock, minThreshold, maxThreshold int) Status {
	switch {
	case float64(currentStock) <= float64(minThreshold)*0.5:
		return StatusCritical
	case currentStock <= minThreshold:
		return StatusLow
	case currentStock >= maxThreshold:
		return StatusOverstocked
	default:
		return StatusNormal
	}
}
