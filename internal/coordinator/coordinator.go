// Package coordinator keeps at most one interactive workflow (join, withdraw,
// admin action) active at a time.
package coordinator

import (
	"fmt"
	"sync"

	"betting-service/domain"

	"github.com/google/uuid"
)

type Slot struct {
	ID   uuid.UUID
	Kind string
}

type Coordinator struct {
	mu     sync.Mutex
	active *Slot
	nextID uint64
	subs   map[uint64]func(*Slot)
}

func New() *Coordinator {
	return &Coordinator{subs: make(map[uint64]func(*Slot))}
}

// Acquire claims the slot for kind. It fails with ErrWorkflowBusy while
// another workflow holds it.
func (c *Coordinator) Acquire(kind string) (uuid.UUID, error) {
	c.mu.Lock()
	if c.active != nil {
		busy := *c.active
		c.mu.Unlock()
		return uuid.Nil, fmt.Errorf("%w: %s in progress", domain.ErrWorkflowBusy, busy.Kind)
	}
	slot := &Slot{ID: uuid.New(), Kind: kind}
	c.active = slot
	subs := c.snapshot()
	c.mu.Unlock()

	notify(subs, slot)
	return slot.ID, nil
}

// Release frees the slot if id still holds it.
func (c *Coordinator) Release(id uuid.UUID) {
	c.mu.Lock()
	if c.active == nil || c.active.ID != id {
		c.mu.Unlock()
		return
	}
	c.active = nil
	subs := c.snapshot()
	c.mu.Unlock()

	notify(subs, nil)
}

// Active returns the current holder, or nil.
func (c *Coordinator) Active() *Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return nil
	}
	s := *c.active
	return &s
}

// Subscribe calls fn with the new holder (nil when released) on every change.
func (c *Coordinator) Subscribe(fn func(*Slot)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Coordinator) snapshot() []func(*Slot) {
	subs := make([]func(*Slot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(*Slot), slot *Slot) {
	for _, fn := range subs {
		if slot == nil {
			fn(nil)
			continue
		}
		s := *slot
		fn(&s)
	}
}
