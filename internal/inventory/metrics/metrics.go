package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
	"github.com/tair/commodity-tracker/internal/inventory/usecase/command"
)

// InventoryMetrics exposes stock levels and movement counts. The gauges read
// the store on every scrape, so they hold whichever entry point changed it.
type InventoryMetrics struct {
	movements *prometheus.CounterVec
}

// NewInventoryMetrics registers the inventory collectors for s on reg
func NewInventoryMetrics(s *store.Store, reg prometheus.Registerer) *InventoryMetrics {
	m := &InventoryMetrics{
		movements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_movements_total",
				Help: "Stock movements recorded",
			},
			[]string{"type"},
		),
	}

	collectors := []prometheus.Collector{
		m.movements,
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "inventory_total_value",
				Help: "Sum of current stock times unit price",
			},
			func() float64 { return s.Summary().TotalValue },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "inventory_unacknowledged_alerts",
				Help: "Number of alerts not yet acknowledged",
			},
			func() float64 { return float64(s.Summary().UnacknowledgedAlerts) },
		),
	}
	for _, status := range domain.Statuses {
		status := status
		collectors = append(collectors, prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "inventory_commodities",
				Help:        "Number of commodities per stock status",
				ConstLabels: prometheus.Labels{"status": string(status)},
			},
			func() float64 { return float64(s.Summary().ByStatus[status]) },
		))
	}

	reg.MustRegister(collectors...)
	return m
}

// Publisher wraps next so that every recorded movement is counted before the
// event is handed on
func (m *InventoryMetrics) Publisher(next command.EventPublisher) command.EventPublisher {
	return &countingPublisher{next: next, movements: m.movements}
}

type countingPublisher struct {
	next      command.EventPublisher
	movements *prometheus.CounterVec
}

func (p *countingPublisher) PublishMovementRecorded(ctx context.Context, movement domain.StockMovement, commodity domain.Commodity) error {
	p.movements.WithLabelValues(string(movement.Kind)).Inc()
	return p.next.PublishMovementRecorded(ctx, movement, commodity)
}

func (p *countingPublisher) PublishAlertRaised(ctx context.Context, alert domain.Alert) error {
	return p.next.PublishAlertRaised(ctx, alert)
}
