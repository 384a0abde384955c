package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient provides a minimal mock for the Redis commands the
// booking lock and the health check use.
type MockRedisClient struct {
	mu   sync.RWMutex
	data map[string]mockRedisValue

	// Error injection
	SetNXError error
	EvalError  error

	EvalCalls int
}

type mockRedisValue struct {
	value     string
	expiresAt time.Time
}

// NewMockRedisClient creates a new mock Redis client.
func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data: make(map[string]mockRedisValue),
	}
}

func (v mockRedisValue) live(now time.Time) bool {
	return v.expiresAt.IsZero() || now.Before(v.expiresAt)
}

// SetNX stores value only when key is absent or expired.
func (m *MockRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewBoolCmd(ctx)

	if m.SetNXError != nil {
		cmd.SetErr(m.SetNXError)
		return cmd
	}

	if cur, ok := m.data[key]; ok && cur.live(time.Now()) {
		cmd.SetVal(false)
		return cmd
	}

	expiresAt := time.Time{}
	if expiration > 0 {
		expiresAt = time.Now().Add(expiration)
	}
	m.data[key] = mockRedisValue{
		value:     value.(string),
		expiresAt: expiresAt,
	}

	cmd.SetVal(true)
	return cmd
}

// compareAndDelete emulates the lock's release script: KEYS[1] is deleted
// only while it holds ARGV[1].
func (m *MockRedisClient) compareAndDelete(ctx context.Context, keys []string, args []interface{}) *redis.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewCmd(ctx)
	m.EvalCalls++

	if m.EvalError != nil {
		cmd.SetErr(m.EvalError)
		return cmd
	}

	cur, ok := m.data[keys[0]]
	if !ok || !cur.live(time.Now()) || cur.value != args[0] {
		cmd.SetVal(int64(0))
		return cmd
	}
	delete(m.data, keys[0])
	cmd.SetVal(int64(1))
	return cmd
}

func (m *MockRedisClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return m.compareAndDelete(ctx, keys, args)
}

func (m *MockRedisClient) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return m.compareAndDelete(ctx, keys, args)
}

func (m *MockRedisClient) EvalRO(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return m.compareAndDelete(ctx, keys, args)
}

func (m *MockRedisClient) EvalShaRO(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return m.compareAndDelete(ctx, keys, args)
}

func (m *MockRedisClient) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	cmd := redis.NewBoolSliceCmd(ctx)
	cmd.SetVal(make([]bool, len(hashes)))
	return cmd
}

func (m *MockRedisClient) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	cmd.SetVal("")
	return cmd
}

// Ping checks connection.
func (m *MockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

// SetKey directly sets a key (for test setup).
func (m *MockRedisClient) SetKey(key, value string, expiration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt := time.Time{}
	if expiration > 0 {
		expiresAt = time.Now().Add(expiration)
	}

	m.data[key] = mockRedisValue{
		value:     value,
		expiresAt: expiresAt,
	}
}

// HasKey checks if a key exists (for test assertions).
func (m *MockRedisClient) HasKey(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.data[key]
	return ok && val.live(time.Now())
}
