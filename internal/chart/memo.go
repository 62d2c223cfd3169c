package chart

import "sync"

// Memo caches one derived Config and re-derives it only when the key
// changes. Keys must be comparable; callers use the identity of the
// payload they derived from.
type Memo struct {
	mu  sync.Mutex
	key any
	set bool
	cfg *Config
}

// Derive returns the cached config for key, calling build on a miss.
func (m *Memo) Derive(key any, build func() *Config) *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set && m.key == key {
		return m.cfg
	}
	m.cfg = build()
	m.key = key
	m.set = true
	return m.cfg
}

// Reset drops the cached config.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key, m.cfg, m.set = nil, nil, false
}
