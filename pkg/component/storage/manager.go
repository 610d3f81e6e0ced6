package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Manager is a registry of storage clients with centralized health
// checking and shutdown. Safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]Client
}

// NewManager creates an empty storage manager.
func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]Client),
	}
}

// Register registers a client under a unique name such as "mongodb" or
// "redis-cache".
func (m *Manager) Register(name string, client Client) error {
	if name == "" {
		return ErrInvalidConfig.WithMessage("client name cannot be empty")
	}
	if client == nil {
		return ErrInvalidConfig.WithMessage("client cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.clients[name]; exists {
		return ErrClientAlreadyExists.WithMessage(fmt.Sprintf("client %q is already registered", name))
	}

	m.clients[name] = client
	return nil
}

// MustRegister registers a client and panics on failure. Intended for
// composition-root wiring where a duplicate name is a programming error.
func (m *Manager) MustRegister(name string, client Client) {
	if err := m.Register(name, client); err != nil {
		panic(fmt.Sprintf("failed to register storage client: %v", err))
	}
}

// Get retrieves a registered client by name.
func (m *Manager) Get(name string) (Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	client, exists := m.clients[name]
	if !exists {
		return nil, ErrClientNotFound.WithMessage(fmt.Sprintf("client %q not found", name))
	}
	return client, nil
}

// Names returns the names of all registered clients.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	return names
}

// HealthCheck checks a single registered client.
func (m *Manager) HealthCheck(ctx context.Context, name string) HealthStatus {
	client, err := m.Get(name)
	if err != nil {
		return HealthStatus{Name: name, Healthy: false, Error: err}
	}

	start := time.Now()
	pingErr := client.Ping(ctx)
	return HealthStatus{
		Name:    name,
		Healthy: pingErr == nil,
		Latency: time.Since(start),
		Error:   pingErr,
	}
}

// HealthCheckAll checks every registered client and returns a status map
// keyed by registration name.
func (m *Manager) HealthCheckAll(ctx context.Context) map[string]HealthStatus {
	m.mu.RLock()
	clients := make(map[string]Client, len(m.clients))
	for name, client := range m.clients {
		clients[name] = client
	}
	m.mu.RUnlock()

	statuses := make(map[string]HealthStatus, len(clients))
	for name, client := range clients {
		start := time.Now()
		err := client.Ping(ctx)
		statuses[name] = HealthStatus{
			Name:    name,
			Healthy: err == nil,
			Latency: time.Since(start),
			Error:   err,
		}
	}
	return statuses
}

// CloseAll closes every registered client, collecting the first error
// while still attempting the rest.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for name, client := range m.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close client %q: %w", name, err)
		}
		delete(m.clients, name)
	}
	return firstErr
}
