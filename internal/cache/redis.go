package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/abhisek/algoquest/internal/steps"
)

// Redis shares histories between processes through a Redis server.
// Histories are stored as JSON.
type Redis struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ Cache = (*Redis)(nil)

// Option configures a Redis cache.
type Option func(*Redis)

// WithTTL sets the expiration of cached histories. Zero never expires.
func WithTTL(ttl time.Duration) Option {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis connects to the server at url, e.g. redis://localhost:6379/0.
func NewRedis(url string, opts ...Option) (*Redis, error) {
	o, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(o), opts...), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Redis {
	r := &Redis{client: client, prefix: "algoquest:history:"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Get(ctx context.Context, key string) (*steps.History, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var h steps.History
	if err := json.Unmarshal(val, &h); err != nil {
		return nil, false, fmt.Errorf("decode history: %w", err)
	}
	return &h, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, h *steps.History) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
