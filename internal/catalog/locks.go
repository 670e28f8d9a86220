package catalog

import "sync"

// keyedMutex 按商品ID串行化变更的键级互斥锁。
// 不同商品之间互不阻塞；锁条目在无人持有时回收。
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{entries: make(map[string]*lockEntry)}
}

// Lock 获取指定 key 的锁，返回对应的解锁函数
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	entry, ok := k.entries[key]
	if !ok {
		entry = &lockEntry{}
		k.entries[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs <= 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
