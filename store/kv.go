package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"hushhly/config"

	"github.com/go-redis/redis/v8"
)

// KV is the string-keyed, string-valued persistent map every document
// namespace lives in. Implementations must be safe for concurrent use.
type KV interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// NewKV builds the backend selected in configuration
func NewKV(cfg config.StorageConfig, rdb *redis.Client) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis storage backend requires a redis client")
		}
		return NewRedisKV(rdb), nil
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	case "memory":
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// MemoryKV keeps items in process memory; used by tests and the memory backend
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

func (m *MemoryKV) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryKV) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryKV) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
