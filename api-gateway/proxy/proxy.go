package proxy

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/commodity-tracker/api-gateway/config"
	"github.com/tair/commodity-tracker/api-gateway/loadbalancer"
	"github.com/tair/commodity-tracker/pkg/logger"
)

// hopHeaders are connection-scoped and never forwarded
var hopHeaders = map[string]bool{
	"connection":        true,
	"keep-alive":        true,
	"transfer-encoding": true,
	"upgrade":           true,
	"host":              true,
	"content-length":    true,
}

// ReverseProxy forwards requests to one backend service, spreading them over
// its instances
type ReverseProxy struct {
	service  config.ServiceConfig
	balancer *loadbalancer.RoundRobin
	client   *http.Client
}

// NewReverseProxy creates a proxy for svc
func NewReverseProxy(svc config.ServiceConfig) *ReverseProxy {
	return &ReverseProxy{
		service:  svc,
		balancer: loadbalancer.NewRoundRobin(svc.Instances),
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Balancer exposes the instance pool for stats and health checks
func (p *ReverseProxy) Balancer() *loadbalancer.RoundRobin {
	return p.balancer
}

// Handler returns the fiber handler that proxies the current request
func (p *ReverseProxy) Handler() fiber.Handler {
	return p.ProxyRequest
}

// ProxyRequest forwards the request and copies the backend answer back
func (p *ReverseProxy) ProxyRequest(c *fiber.Ctx) error {
	serverURL := p.balancer.Next()
	if serverURL == "" {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "No available instances for " + p.service.Name,
		})
	}

	ctx := c.UserContext()
	if p.service.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.service.Timeout)
		defer cancel()
	}

	targetURL := serverURL + string(c.Request().URI().Path())
	if query := c.Request().URI().QueryString(); len(query) > 0 {
		targetURL += "?" + string(query)
	}

	req, err := http.NewRequestWithContext(ctx, c.Method(), targetURL, bytes.NewReader(c.Body()))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create request",
		})
	}
	copyHeaders(c, req)

	resp, err := p.client.Do(req)
	if err != nil {
		logger.WithContext(ctx).Error().
			Err(err).
			Str("service", p.service.Name).
			Str("target_url", serverURL).
			Msg("Backend request failed")

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to reach backend service",
			"service": p.service.Name,
		})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read backend response",
		})
	}

	for key, values := range resp.Header {
		if hopHeaders[strings.ToLower(key)] {
			continue
		}
		for _, value := range values {
			c.Append(key, value)
		}
	}

	return c.Status(resp.StatusCode).Send(body)
}

// copyHeaders copies the inbound headers and adds the X-Forwarded set
func copyHeaders(c *fiber.Ctx, req *http.Request) {
	c.Request().Header.VisitAll(func(key, value []byte) {
		if hopHeaders[strings.ToLower(string(key))] {
			return
		}
		req.Header.Add(string(key), string(value))
	})

	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Proto", c.Protocol())
	req.Header.Set("X-Forwarded-Host", c.Hostname())
}
