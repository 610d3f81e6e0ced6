// Package storage defines the base abstractions shared by the storage
// backends of shopstack: a common client interface, typed storage errors,
// and a registry for health checking and graceful shutdown.
package storage

import (
	"context"
	"time"
)

// Client is the base interface every storage backend implements.
// Each backend (MongoDB, Redis cache) wraps its driver behind this
// interface so the composition root can manage them uniformly.
type Client interface {
	// Name returns the storage type identifier, e.g. "mongodb" or "redis".
	Name() string

	// Ping performs a lightweight connectivity check.
	Ping(ctx context.Context) error

	// Close releases the backend connection. Safe to call more than once.
	Close() error

	// Health returns a HealthChecker bound to this client.
	Health() HealthChecker
}

// HealthChecker performs a health check when invoked. It captures the
// client instance so callers need no direct access to it.
type HealthChecker func() error

// HealthStatus is the result of a single health check.
type HealthStatus struct {
	// Name matches the value returned by Client.Name().
	Name string `json:"name"`

	// Healthy reports whether the backend responded normally.
	Healthy bool `json:"healthy"`

	// Latency is the time the check took.
	Latency time.Duration `json:"latency"`

	// Error holds the failure, nil when healthy.
	Error error `json:"error,omitempty"`
}
