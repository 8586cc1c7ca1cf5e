package cache

import (
	"strings"
	"sync"
	"time"
)

// TTLCache は有効期限つきの明示的なキャッシュ。
// パッケージ変数では持たず、使う側に注入する（テストと多インスタンス運用のため）。
type TTLCache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func New[V any](ttl time.Duration) *TTLCache[V] {
	return NewWithClock[V](ttl, time.Now)
}

// NewWithClock は時計を差し替えられるコンストラクタ（テスト用）。
func NewWithClock[V any](ttl time.Duration, now func() time.Time) *TTLCache[V] {
	return &TTLCache[V]{
		ttl:     ttl,
		now:     now,
		entries: map[string]entry[V]{},
	}
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *TTLCache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     v,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *TTLCache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *TTLCache[V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]entry[V]{}
}

// Key は "種別:引数..." 形式のキーを組み立てる明示的なキー関数。
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
