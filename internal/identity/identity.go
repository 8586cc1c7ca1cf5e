package identity

import "sync"

// Identity は現在の利用者。UserIDが空ならゲスト。
type Identity struct {
	UserID string
}

func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

// Broadcaster はidentityの変更を購読者へ配る。
// 購読時に現在値を必ず1回同期的に通知し、以後はSetのたびに通知する。
// 同じidentityが続けて流れてくることはあり、購読側が冪等に扱う約束。
type Broadcaster struct {
	mu      sync.Mutex
	current Identity
	subs    []func(Identity)
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe は購読を登録し、現在値を即時に1回通知する。
func (b *Broadcaster) Subscribe(fn func(Identity)) {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	cur := b.current
	b.mu.Unlock()

	fn(cur)
}

// Set は現在値を更新して全購読者へ通知する。
func (b *Broadcaster) Set(id Identity) {
	b.mu.Lock()
	b.current = id
	subs := make([]func(Identity), len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}

func (b *Broadcaster) Current() Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
