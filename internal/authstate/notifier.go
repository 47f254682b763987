package authstate

import (
	"context"
	"sync"
)

// Notifier fans session change events out to subscribers
type Notifier interface {
	Publish(ctx context.Context, ev ChangeEvent) error
	// Subscribe registers fn and returns a function that removes it
	Subscribe(fn func(ChangeEvent)) (unsubscribe func())
}

// LocalNotifier delivers events synchronously within the process
type LocalNotifier struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(ChangeEvent)
}

// NewLocalNotifier creates an in-process notifier
func NewLocalNotifier() *LocalNotifier {
	return &LocalNotifier{subs: make(map[int]func(ChangeEvent))}
}

// Publish calls every subscriber before returning
func (n *LocalNotifier) Publish(_ context.Context, ev ChangeEvent) error {
	n.mu.RLock()
	fns := make([]func(ChangeEvent), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
	return nil
}

func (n *LocalNotifier) Subscribe(fn func(ChangeEvent)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Subscribers returns the number of active subscriptions
func (n *LocalNotifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}
