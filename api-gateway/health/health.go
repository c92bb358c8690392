package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/tair/commodity-tracker/api-gateway/config"
	"github.com/tair/commodity-tracker/pkg/logger"
)

// Health states reported by the gateway
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// InstanceHealth is the result of probing one backend instance
type InstanceHealth struct {
	URL       string    `json:"url"`
	Status    string    `json:"status"`
	LatencyMS int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// GatewayHealth represents the overall gateway health
type GatewayHealth struct {
	Gateway   string           `json:"gateway"`
	Service   string           `json:"service"`
	Status    string           `json:"status"`
	Instances []InstanceHealth `json:"instances"`
	Uptime    float64          `json:"uptime_seconds"`
}

// HealthChecker probes the inventory service instances
type HealthChecker struct {
	gateway   string
	service   config.ServiceConfig
	client    *http.Client
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(gateway string, svc config.ServiceConfig) *HealthChecker {
	return &HealthChecker{
		gateway:   gateway,
		service:   svc,
		client:    &http.Client{Timeout: 5 * time.Second},
		startTime: time.Now(),
	}
}

// CheckInstance probes a single instance's health endpoint
func (h *HealthChecker) CheckInstance(ctx context.Context, baseURL string) InstanceHealth {
	start := time.Now()
	result := InstanceHealth{URL: baseURL, Timestamp: start}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+h.service.HealthCheck, nil)
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = fmt.Sprintf("Failed to create request: %v", err)
		return result
	}

	resp, err := h.client.Do(req)
	result.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = fmt.Sprintf("Failed to reach service: %v", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		result.Status = StatusHealthy
	} else {
		result.Status = StatusUnhealthy
		result.Error = fmt.Sprintf("Unexpected status code: %d", resp.StatusCode)
	}
	return result
}

// CheckAll probes every instance concurrently
func (h *HealthChecker) CheckAll(ctx context.Context) GatewayHealth {
	results := make([]InstanceHealth, len(h.service.Instances))

	var wg sync.WaitGroup
	for i, url := range h.service.Instances {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			results[i] = h.CheckInstance(ctx, url)
			if results[i].Status != StatusHealthy {
				logger.WithContext(ctx).Warn().
					Str("service", h.service.Name).
					Str("url", url).
					Str("error", results[i].Error).
					Msg("Service health check failed")
			}
		}(i, url)
	}
	wg.Wait()

	return GatewayHealth{
		Gateway:   h.gateway,
		Service:   h.service.Name,
		Status:    overallStatus(results),
		Instances: results,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
}

func overallStatus(results []InstanceHealth) string {
	healthy := 0
	for _, r := range results {
		if r.Status == StatusHealthy {
			healthy++
		}
	}

	switch {
	case len(results) > 0 && healthy == len(results):
		return StatusHealthy
	case healthy > 0:
		return StatusDegraded
	default:
		return StatusUnhealthy
	}
}

// QuickCheck reports the gateway itself without touching the backends
func (h *HealthChecker) QuickCheck() map[string]any {
	return map[string]any{
		"status":    StatusHealthy,
		"gateway":   h.gateway,
		"uptime":    time.Since(h.startTime).Seconds(),
		"timestamp": time.Now(),
	}
}
