package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("cache: not found")

func NewSingular[T any](key string) *Singular[T] {
	return &Singular[T]{
		key: key,
		c:   cache.New(cache.NoExpiration, time.Minute*10),
	}
}

// Singular caches exactly one value of type T.
type Singular[T any] struct {
	// m serializes the slow path of MutexGetSet
	m sync.Mutex

	key string

	c *cache.Cache
}

func (c *Singular[T]) Key() string {
	return c.key
}

func (c *Singular[T]) Get() (T, error) {
	result, ok := c.c.Get(c.key)
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return result.(T), nil
}

func (c *Singular[T]) Set(value T, expire time.Duration) {
	c.c.Set(c.key, value, expire)
}

// MutexGetSet returns the cached value, or serially computes it with valueFunc,
// stores it and returns it when the key is absent. The bool reports whether
// valueFunc ran.
func (c *Singular[T]) MutexGetSet(valueFunc func() (T, error), expire time.Duration) (T, bool, error) {
	if v, err := c.Get(); err == nil {
		return v, false, nil
	}

	c.m.Lock()
	defer c.m.Unlock()

	if v, err := c.Get(); err == nil {
		return v, false, nil
	}

	value, err := valueFunc()
	if err != nil {
		log.Error().Err(err).Str("key", c.key).Msg("failed to get value from valueFunc() in MutexGetSet")
		var zero T
		return zero, false, err
	}

	c.Set(value, expire)
	return value, true, nil
}

func (c *Singular[T]) Delete() error {
	c.c.Flush()
	return nil
}
