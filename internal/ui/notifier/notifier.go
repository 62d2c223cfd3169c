// Package notifier provides a simple broadcast mechanism for SSE updates.
package notifier

import "sync"

// Notifier pings subscribed listeners. Each listener belongs to a workspace
// key; Notify reaches one workspace (every browser tab sharing the session)
// and Broadcast reaches all of them, e.g. after a config reload.
// Listeners receive an empty struct and should re-render from current state.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]string
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]string),
	}
}

// Subscribe returns a channel that receives pings for key.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe(key string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = key
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Notify pings the listeners subscribed under key.
func (n *Notifier) Notify(key string) {
	n.send(func(k string) bool { return k == key })
}

// Broadcast pings every listener.
func (n *Notifier) Broadcast() {
	n.send(func(string) bool { return true })
}

// Len returns the number of listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// send is non-blocking: a listener whose channel is full already has a
// pending ping.
func (n *Notifier) send(match func(string) bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch, key := range n.listeners {
		if !match(key) {
			continue
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
