// Package scheduler holds the two dispatch lanes of pending order ids.
//
// The priority lane is a stack: the most recently enqueued id is dispatched
// first. The regular lane is a FIFO queue. Priority always preempts regular.
package scheduler

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ariefcatur/go-store-orders/internal/orders"
)

var ErrAlreadyQueued = errors.New("order already queued")

type Scheduler struct {
	mu       sync.Mutex
	priority []orders.OrderID
	regular  []orders.OrderID
	head     int // first live index of regular
	member   map[orders.OrderID]orders.Lane
}

func New() *Scheduler {
	return &Scheduler{member: make(map[orders.OrderID]orders.Lane)}
}

func (s *Scheduler) Enqueue(id orders.OrderID, lane orders.Lane) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.member[id]; ok {
		return fmt.Errorf("%w: order %d in %s lane", ErrAlreadyQueued, id, cur)
	}
	switch lane {
	case orders.LanePriority:
		s.priority = append(s.priority, id)
	case orders.LaneRegular:
		s.regular = append(s.regular, id)
	default:
		return fmt.Errorf("unknown lane %q", lane)
	}
	s.member[id] = lane
	return nil
}

// DispatchNext pops the next id: priority tail first, then regular head.
// ok is false when both lanes are empty.
func (s *Scheduler) DispatchNext() (id orders.OrderID, lane orders.Lane, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.priority); n > 0 {
		id = s.priority[n-1]
		s.priority = s.priority[:n-1]
		delete(s.member, id)
		return id, orders.LanePriority, true
	}
	if s.head < len(s.regular) {
		id = s.regular[s.head]
		s.head++
		s.compact()
		delete(s.member, id)
		return id, orders.LaneRegular, true
	}
	return 0, "", false
}

// Remove drops id from whichever lane holds it. Removing an absent id is a
// no-op; the return value reports whether anything was removed.
func (s *Scheduler) Remove(id orders.OrderID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	lane, ok := s.member[id]
	if !ok {
		return false
	}
	delete(s.member, id)
	switch lane {
	case orders.LanePriority:
		s.priority = removeID(s.priority, 0, id)
	case orders.LaneRegular:
		s.regular = removeID(s.regular, s.head, id)
		s.compact()
	}
	return true
}

// Lane reports which lane currently holds id.
func (s *Scheduler) Lane(id orders.OrderID) (orders.Lane, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.member[id]
	return l, ok
}

func (s *Scheduler) Backlog() orders.Backlog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return orders.Backlog{Regular: len(s.regular) - s.head, Priority: len(s.priority)}
}

func removeID(q []orders.OrderID, from int, id orders.OrderID) []orders.OrderID {
	for i := from; i < len(q); i++ {
		if q[i] == id {
			return append(q[:i], q[i+1:]...)
		}
	}
	return q
}

// compact reclaims the consumed prefix of the regular queue once it
// dominates the backing array.
func (s *Scheduler) compact() {
	if s.head == 0 {
		return
	}
	if s.head == len(s.regular) {
		s.regular = s.regular[:0]
		s.head = 0
		return
	}
	if s.head >= 32 && s.head*2 >= len(s.regular) {
		n := copy(s.regular, s.regular[s.head:])
		s.regular = s.regular[:n]
		s.head = 0
	}
}
