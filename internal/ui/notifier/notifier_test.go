package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func received(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

func TestNotifier_Subscribe_Unsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe("ws-1")
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Len())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Len())
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()

	ch1 := n.Subscribe("ws-1")
	ch2 := n.Subscribe("ws-2")
	defer n.Unsubscribe(ch1)
	defer n.Unsubscribe(ch2)

	n.Broadcast()

	assert.True(t, received(ch1), "ch1 did not receive broadcast")
	assert.True(t, received(ch2), "ch2 did not receive broadcast")
}

func TestNotifier_NotifyTargetsKey(t *testing.T) {
	n := New()

	tab1 := n.Subscribe("ws-1")
	tab2 := n.Subscribe("ws-1")
	other := n.Subscribe("ws-2")
	defer n.Unsubscribe(tab1)
	defer n.Unsubscribe(tab2)
	defer n.Unsubscribe(other)

	n.Notify("ws-1")

	assert.True(t, received(tab1))
	assert.True(t, received(tab2))
	select {
	case <-other:
		t.Error("other workspace was notified")
	default:
	}
}

func TestNotifier_Broadcast_NonBlocking(t *testing.T) {
	n := New()

	ch := n.Subscribe("ws-1")
	defer n.Unsubscribe(ch)

	// Fill the channel buffer
	ch <- struct{}{}

	done := make(chan bool)
	go func() {
		n.Broadcast()
		n.Notify("ws-1")
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Error("Broadcast blocked on full channel")
	}
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	const numGoroutines = 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe("ws")
			n.Broadcast()
			n.Notify("ws")
			n.Unsubscribe(ch)
		}()
	}

	wg.Wait()
	assert.Equal(t, 0, n.Len())
}
