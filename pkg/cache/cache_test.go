package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name       string
		namespace  string
		positional []any
		named      map[string]any
		want       string
	}{
		{
			name:      "namespace only",
			namespace: "assets",
			want:      "assets",
		},
		{
			name:       "positional parts keep call order",
			namespace:  "assets",
			positional: []any{"a", 2, true},
			want:       "assets:a:2:true",
		},
		{
			name:      "named parts sorted lexicographically",
			namespace: "assets:list",
			named:     map[string]any{"skip": 0, "limit": 10},
			want:      "assets:list:limit:10:skip:0",
		},
		{
			name:       "positional before named",
			namespace:  "ns",
			positional: []any{"p1"},
			named:      map[string]any{"b": 2, "a": 1},
			want:       "ns:p1:a:1:b:2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Key(tt.namespace, tt.positional, tt.named)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyOrderIndependent(t *testing.T) {
	// Two maps built in different insertion orders must produce the same key.
	a := map[string]any{}
	a["skip"] = 20
	a["limit"] = 5
	a["status"] = "active"

	b := map[string]any{}
	b["status"] = "active"
	b["limit"] = 5
	b["skip"] = 20

	assert.Equal(t, Key("assets:list", nil, a), Key("assets:list", nil, b))
}

// unreachableRedis returns a client whose every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisCacheFailOpen(t *testing.T) {
	rdb := unreachableRedis(t)
	t.Cleanup(func() { _ = rdb.Close() })

	c := New(rdb, nil)
	ctx := context.Background()

	var dest []string
	assert.False(t, c.Get(ctx, "k", &dest), "get against a dead backend must read as a miss")
	assert.False(t, c.Set(ctx, "k", []string{"v"}, time.Minute))
	assert.False(t, c.Delete(ctx, "k"))
	assert.Equal(t, 0, c.InvalidatePattern(ctx, "k:*"))
}

func TestRedisCacheSetUnmarshalableValue(t *testing.T) {
	rdb := unreachableRedis(t)
	t.Cleanup(func() { _ = rdb.Close() })

	c := New(rdb, nil)

	// Marshal failure is reported before the backend is ever touched.
	require.False(t, c.Set(context.Background(), "k", make(chan int), time.Minute))
}
