// Copyright (c) 2020 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package hostset

import (
	"sort"
	"sync"

	"github.com/clusterlb/lb/api/upstream"
)

// PrioritySet is an ordered, sparse mapping from priority to HostSet,
// created on demand as membership for a tier first arrives.
type PrioritySet struct {
	mu    sync.RWMutex
	tiers map[uint32]*HostSet

	subMu   sync.Mutex
	subs    map[int]upstream.PrioritySetCallback
	nextSub int
}

var _ upstream.PrioritySet = (*PrioritySet)(nil)

// NewPrioritySet constructs an empty PrioritySet.
func NewPrioritySet() *PrioritySet {
	return &PrioritySet{
		tiers: make(map[uint32]*HostSet),
		subs:  make(map[int]upstream.PrioritySetCallback),
	}
}

func (ps *PrioritySet) HostSetAt(priority uint32) (upstream.HostSet, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	hs, ok := ps.tiers[priority]
	if !ok {
		return nil, false
	}
	return hs, true
}

func (ps *PrioritySet) Priorities() []uint32 {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := make([]uint32, 0, len(ps.tiers))
	for p := range ps.tiers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (ps *PrioritySet) Subscribe(cb upstream.PrioritySetCallback) upstream.Subscription {
	ps.subMu.Lock()
	id := ps.nextSub
	ps.nextSub++
	ps.subs[id] = cb
	ps.subMu.Unlock()

	return &prioritySetSubscription{prioritySet: ps, id: id}
}

// UpdateHostSet replaces the membership of the tier at priority, creating
// the tier (and wiring it into this set's own subscribers) the first time
// it is observed. byLocality has the same shape HostSet.Update expects.
func (ps *PrioritySet) UpdateHostSet(priority uint32, byLocality [][]upstream.Host) {
	hs := ps.hostSetAt(priority)
	hs.Update(byLocality)
	ps.notify(priority)
}

func (ps *PrioritySet) hostSetAt(priority uint32) *HostSet {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	hs, ok := ps.tiers[priority]
	if !ok {
		hs = New(priority)
		ps.tiers[priority] = hs
	}
	return hs
}

func (ps *PrioritySet) notify(priority uint32) {
	ps.subMu.Lock()
	cbs := make([]upstream.PrioritySetCallback, 0, len(ps.subs))
	for _, cb := range ps.subs {
		cbs = append(cbs, cb)
	}
	ps.subMu.Unlock()

	for _, cb := range cbs {
		cb(priority)
	}
}

func (ps *PrioritySet) unsubscribe(id int) {
	ps.subMu.Lock()
	delete(ps.subs, id)
	ps.subMu.Unlock()
}

type prioritySetSubscription struct {
	prioritySet *PrioritySet
	id          int
	canceled    bool
	mu          sync.Mutex
}

func (s *prioritySetSubscription) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return
	}
	s.canceled = true
	s.prioritySet.unsubscribe(s.id)
}
