package cache

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	type input struct {
		Principal float64 `json:"principal"`
		Rate      float64 `json:"rate"`
	}

	a, err := Key("term", input{Principal: 1e6, Rate: 5})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	b, _ := Key("term", input{Principal: 1e6, Rate: 5})
	c, _ := Key("term", input{Principal: 1e6, Rate: 6})
	d, _ := Key("income", input{Principal: 1e6, Rate: 5})

	if a != b {
		t.Errorf("equal inputs produced different keys: %s != %s", a, b)
	}
	if a == c {
		t.Error("different inputs produced the same key")
	}
	if a == d || !strings.HasPrefix(d, "income:") {
		t.Errorf("kind should prefix the key, got %s", d)
	}

	if _, err := Key("term", func() {}); err == nil {
		t.Error("expected error for unmarshalable input")
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewMemoryCache(time.Minute, 0)
	c.now = func() time.Time { return now }

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("Get() = %q, %v, %v", got, ok, err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expected entry to expire")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be evicted, Len() = %d", c.Len())
	}
}

func TestMemoryCacheWithoutTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0, 0)
	_ = c.Set(ctx, "k", []byte("v"))
	c.now = func() time.Time { return time.Now().Add(100 * 365 * 24 * time.Hour) }
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Error("entry without TTL should not expire")
	}
}

func TestMemoryCacheSweepsExpiredOnSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewMemoryCache(time.Minute, 2000)
	c.now = func() time.Time { return now }

	payload := make([]byte, 1024)
	for i := 0; i < 1000; i++ {
		if err := c.Set(ctx, fmt.Sprintf("key-%d", i), payload); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	if c.Len() != 1000 {
		t.Fatalf("Len() = %d, want 1000", c.Len())
	}

	now = now.Add(time.Hour)
	if err := c.Set(ctx, "fresh", payload); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("expired entries should be swept on Set, Len() = %d", c.Len())
	}
	if _, ok, _ := c.Get(ctx, "fresh"); !ok {
		t.Error("fresh entry should be present")
	}
}

func TestMemoryCacheMaxEntries(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		keys    []string
		want    []string
		evicted []string
	}{
		{
			name:    "oldest evicted",
			ttl:     time.Hour,
			keys:    []string{"a", "b", "c", "d"},
			want:    []string{"b", "c", "d"},
			evicted: []string{"a"},
		},
		{
			name:    "without ttl",
			ttl:     0,
			keys:    []string{"a", "b", "c", "d", "e"},
			want:    []string{"c", "d", "e"},
			evicted: []string{"a", "b"},
		},
		{
			name: "overwrite does not evict",
			ttl:  time.Hour,
			keys: []string{"a", "b", "c", "c", "a"},
			want: []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			c := NewMemoryCache(tt.ttl, 3)
			c.now = func() time.Time { return now }

			for _, key := range tt.keys {
				now = now.Add(time.Second)
				if err := c.Set(ctx, key, []byte(key)); err != nil {
					t.Fatalf("Set(%q) error = %v", key, err)
				}
			}

			if c.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", c.Len(), len(tt.want))
			}
			for _, key := range tt.want {
				if _, ok, _ := c.Get(ctx, key); !ok {
					t.Errorf("expected %q to be cached", key)
				}
			}
			for _, key := range tt.evicted {
				if _, ok, _ := c.Get(ctx, key); ok {
					t.Errorf("expected %q to be evicted", key)
				}
			}
		})
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	c := NewRedisCache("127.0.0.1:1", time.Minute)
	defer c.Close()

	if err := c.Ping(ctx); err == nil {
		t.Skip("unexpected redis listener on 127.0.0.1:1")
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err == nil {
		t.Errorf("Get() on unreachable redis = %v, %v; want miss with error", ok, err)
	}
}
