package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, 5*time.Minute)
	ctx := context.Background()

	type badge struct {
		HasPending bool `json:"has_pending"`
	}

	if err := c.Set(ctx, "k1", badge{HasPending: true}, time.Minute); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}

	var got badge
	if err := c.Get(ctx, "k1", &got); err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if !got.HasPending {
		t.Error("取回的值和存入的不一致")
	}

	// 未命中必须返回 ErrCacheMiss, 调用方靠它区分"没有"和"出错"
	if err := c.Get(ctx, "absent", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("未命中应返回 ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, 5*time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "short", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	var got string
	if err := c.Get(ctx, "short", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("过期后应返回 ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(time.Minute, 5*time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "k", 42, time.Minute); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}

	var got int
	if err := c.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("删除后应返回 ErrCacheMiss, got %v", err)
	}
}
