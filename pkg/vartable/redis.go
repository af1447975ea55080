package vartable

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// Redis is a Table backed by a Redis hash (value -> name) plus a list that
// keeps insertion order. It lets separate processes share variable names.
type Redis struct {
	client *backend.Client
	prefix string
}

var _ Table = (*Redis)(nil)

type Option func(*Redis)

// WithPrefix sets the key prefix for the table.
func WithPrefix(prefix string) Option {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis creates a Redis table connected to address.
func NewRedis(address, password string, db int, opts ...Option) *Redis {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisFromClient(rdb, opts...)
}

// NewRedisFromClient creates a Redis table from an existing client.
func NewRedisFromClient(client *backend.Client, opts ...Option) *Redis {
	r := &Redis{
		client: client,
		prefix: "chili:vars:",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Redis) namesKey() string {
	return r.prefix + "names"
}

func (r *Redis) orderKey() string {
	return r.prefix + "order"
}

// LoadOrStore implements Table. HSETNX makes the first writer of a value win.
func (r *Redis) LoadOrStore(ctx context.Context, value, name string) (string, bool, error) {
	stored, err := r.client.HSetNX(ctx, r.namesKey(), value, name).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis store variable: %w", err)
	}

	if !stored {
		actual, err := r.client.HGet(ctx, r.namesKey(), value).Result()
		if err != nil {
			return "", false, fmt.Errorf("redis load variable: %w", err)
		}
		return actual, true, nil
	}

	if err := r.client.RPush(ctx, r.orderKey(), value).Err(); err != nil {
		return "", false, fmt.Errorf("redis record variable order: %w", err)
	}
	return name, false, nil
}

// Variables implements Table.
func (r *Redis) Variables(ctx context.Context) ([]Variable, error) {
	values, err := r.client.LRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list variables: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	names, err := r.client.HMGet(ctx, r.namesKey(), values...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load variables: %w", err)
	}

	vars := make([]Variable, 0, len(values))
	for i, value := range values {
		name, _ := names[i].(string)
		vars = append(vars, Variable{Value: value, Name: name})
	}
	return vars, nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
