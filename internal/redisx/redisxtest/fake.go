// Package redisxtest provides an in-memory redis.Cmdable covering the
// commands the redisx adapters issue.
package redisxtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Fake implements the string and hash commands used by redisx. Calling any
// other command panics on the nil embedded interface. TTLs are recorded, not
// enforced.
type Fake struct {
	redis.Cmdable

	// Err, when set, is returned by every command.
	Err error

	mu     sync.Mutex
	kv     map[string]string
	hashes map[string]map[string]string
	ttl    map[string]time.Duration
}

func New() *Fake {
	return &Fake{
		kv:     make(map[string]string),
		hashes: make(map[string]map[string]string),
		ttl:    make(map[string]time.Duration),
	}
}

// ExpirationOf reports the last expiration set on key.
func (f *Fake) ExpirationOf(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttl[key]
}

func (f *Fake) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return redis.NewStringResult("", f.Err)
	}
	v, ok := f.kv[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *Fake) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return redis.NewStatusResult("", f.Err)
	}
	f.kv[key] = str(value)
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *Fake) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return redis.NewBoolResult(false, f.Err)
	}
	if _, ok := f.kv[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.kv[key] = str(value)
	f.ttl[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *Fake) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return redis.NewIntResult(0, f.Err)
	}
	var n int64
	for _, k := range keys {
		_, inKV := f.kv[k]
		_, inHash := f.hashes[k]
		if inKV || inHash {
			n++
		}
		delete(f.kv, k)
		delete(f.hashes, k)
		delete(f.ttl, k)
	}
	return redis.NewIntResult(n, nil)
}

// HSet accepts flat field/value pairs.
func (f *Fake) HSet(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return redis.NewIntResult(0, f.Err)
	}
	if len(values)%2 != 0 {
		return redis.NewIntResult(0, fmt.Errorf("hset %s: odd number of arguments", key))
	}
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	var added int64
	for i := 0; i < len(values); i += 2 {
		field := str(values[i])
		if _, ok := h[field]; !ok {
			added++
		}
		h[field] = str(values[i+1])
	}
	return redis.NewIntResult(added, nil)
}

func (f *Fake) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return redis.NewMapStringStringResult(nil, f.Err)
	}
	out := make(map[string]string, len(f.hashes[key]))
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, nil)
}

func (f *Fake) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return redis.NewBoolResult(false, f.Err)
	}
	_, inKV := f.kv[key]
	_, inHash := f.hashes[key]
	if !inKV && !inHash {
		return redis.NewBoolResult(false, nil)
	}
	f.ttl[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func str(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
