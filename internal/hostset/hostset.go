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
	"sync"

	"github.com/clusterlb/lb/api/upstream"
)

// HostSet is a mutable, copy-on-write set of hosts at one priority tier.
// Update republishes a brand new snapshot on every call so that a caller
// holding a slice returned by an accessor never observes a mutation
// in-place, matching spec's invariant that in-flight selections see either
// the pre- or post-update membership, never a mix.
type HostSet struct {
	priority uint32

	mu                sync.RWMutex
	all               []upstream.Host
	healthy           []upstream.Host
	byLocality        [][]upstream.Host
	healthyByLocality [][]upstream.Host

	subMu   sync.Mutex
	subs    map[int]upstream.HostSetCallback
	nextSub int
}

var _ upstream.HostSet = (*HostSet)(nil)

// New constructs an empty HostSet for priority.
func New(priority uint32) *HostSet {
	return &HostSet{
		priority: priority,
		subs:     make(map[int]upstream.HostSetCallback),
	}
}

func (hs *HostSet) Priority() uint32 { return hs.priority }

func (hs *HostSet) Hosts() []upstream.Host {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.all
}

func (hs *HostSet) HealthyHosts() []upstream.Host {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.healthy
}

func (hs *HostSet) HostsPerLocality() [][]upstream.Host {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.byLocality
}

func (hs *HostSet) HealthyHostsPerLocality() [][]upstream.Host {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.healthyByLocality
}

func (hs *HostSet) Subscribe(cb upstream.HostSetCallback) upstream.Subscription {
	hs.subMu.Lock()
	id := hs.nextSub
	hs.nextSub++
	hs.subs[id] = cb
	hs.subMu.Unlock()

	return &hostSetSubscription{hostSet: hs, id: id}
}

// Update replaces this host set's membership. byLocality groups the full
// host list by locality index (index 0 is local, when this set belongs to
// the local fleet); a nil or single-element byLocality treats the whole
// set as one locality. Update recomputes healthy subsets from each host's
// current Healthy() and republishes every derived snapshot before
// notifying subscribers with the addresses that entered or left the set.
func (hs *HostSet) Update(byLocality [][]upstream.Host) {
	var all, healthy []upstream.Host
	healthyByLocality := make([][]upstream.Host, len(byLocality))
	for i, locality := range byLocality {
		var healthyLocality []upstream.Host
		for _, h := range locality {
			all = append(all, h)
			if h.Healthy() {
				healthy = append(healthy, h)
				healthyLocality = append(healthyLocality, h)
			}
		}
		healthyByLocality[i] = healthyLocality
	}

	hs.mu.Lock()
	prev := hs.all
	hs.all = all
	hs.healthy = healthy
	hs.byLocality = byLocality
	hs.healthyByLocality = healthyByLocality
	hs.mu.Unlock()

	added, removed := diffHosts(prev, all)
	hs.notify(added, removed)
}

func (hs *HostSet) notify(added, removed []upstream.Host) {
	hs.subMu.Lock()
	cbs := make([]upstream.HostSetCallback, 0, len(hs.subs))
	for _, cb := range hs.subs {
		cbs = append(cbs, cb)
	}
	hs.subMu.Unlock()

	for _, cb := range cbs {
		cb(added, removed)
	}
}

func (hs *HostSet) unsubscribe(id int) {
	hs.subMu.Lock()
	delete(hs.subs, id)
	hs.subMu.Unlock()
}

func diffHosts(prev, next []upstream.Host) (added, removed []upstream.Host) {
	prevAddrs := make(map[string]struct{}, len(prev))
	for _, h := range prev {
		prevAddrs[h.Address()] = struct{}{}
	}
	nextAddrs := make(map[string]struct{}, len(next))
	for _, h := range next {
		nextAddrs[h.Address()] = struct{}{}
		if _, ok := prevAddrs[h.Address()]; !ok {
			added = append(added, h)
		}
	}
	for _, h := range prev {
		if _, ok := nextAddrs[h.Address()]; !ok {
			removed = append(removed, h)
		}
	}
	return added, removed
}

type hostSetSubscription struct {
	hostSet  *HostSet
	id       int
	canceled bool
	mu       sync.Mutex
}

func (s *hostSetSubscription) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return
	}
	s.canceled = true
	s.hostSet.unsubscribe(s.id)
}
