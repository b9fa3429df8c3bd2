package settings

import "sync"

// Memory is an in-process Store. Put notifies watchers synchronously.
type Memory struct {
	mu     sync.RWMutex
	values map[int]map[string]int
	obs    observers
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{values: make(map[int]map[string]int)}
}

func (m *Memory) Int(key string, def int, user int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[user][key]; ok {
		return v
	}
	return def
}

// Put stores value and notifies the watchers of key.
func (m *Memory) Put(user int, key string, value int) {
	m.mu.Lock()
	if m.values[user] == nil {
		m.values[user] = make(map[string]int)
	}
	m.values[user][key] = value
	m.mu.Unlock()

	m.obs.notify(URIFor(key))
}

func (m *Memory) Watch(uri URI, fn func(URI)) func() {
	return m.obs.add(uri, fn)
}

// Watchers returns how many callbacks observe uri.
func (m *Memory) Watchers(uri URI) int { return m.obs.count(uri) }
