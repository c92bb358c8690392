package loadbalancer

import (
	"sync"

	"github.com/gofiber/fiber/v2"
)

// RoundRobin hands out backend instances in turn
type RoundRobin struct {
	servers []string
	current int
	mu      sync.Mutex
}

// NewRoundRobin creates a new round-robin load balancer
func NewRoundRobin(servers []string) *RoundRobin {
	return &RoundRobin{servers: append([]string(nil), servers...)}
}

// Next returns the next server, or "" when the pool is empty
func (rr *RoundRobin) Next() string {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if len(rr.servers) == 0 {
		return ""
	}
	server := rr.servers[rr.current]
	rr.current = (rr.current + 1) % len(rr.servers)
	return server
}

// Servers returns a copy of the pool
func (rr *RoundRobin) Servers() []string {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return append([]string(nil), rr.servers...)
}

// Stats returns load balancer statistics
func (rr *RoundRobin) Stats() fiber.Map {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	return fiber.Map{
		"algorithm":     "round-robin",
		"server_count":  len(rr.servers),
		"servers":       append([]string(nil), rr.servers...),
		"current_index": rr.current,
	}
}
