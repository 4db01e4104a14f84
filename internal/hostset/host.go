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

// Package hostset provides a reference implementation of the
// api/upstream.Host, HostSet and PrioritySet interfaces, standing in for
// the out-of-scope membership-discovery layer. It is what the package
// tests in priority, roundrobin, leastrequest and random exercise against;
// a real deployment is expected to bring its own, backed by xDS or a
// service registry.
package hostset

import (
	"go.uber.org/atomic"

	"github.com/clusterlb/lb/api/upstream"
)

// Host is a mutable upstream endpoint. Weight and Address are fixed at
// construction, matching spec's invariant that weight is read-only to the
// core; ActiveRequests and Healthy are updated by collaborators outside
// this module (the request lifecycle and the health checker respectively)
// through SetHealthy and {Inc,Dec,Set}ActiveRequests.
//
// Host mirrors peer/abstractpeer.Peer's shape: an identifier plus a small
// bundle of atomically-updated status fields.
type Host struct {
	addr   string
	weight uint32

	active  atomic.Uint64
	healthy atomic.Bool
}

var _ upstream.Host = (*Host)(nil)

// NewHost constructs a Host with the given address and weight, initially
// healthy. Weight must be >= 1.
func NewHost(addr string, weight uint32) *Host {
	if weight == 0 {
		weight = 1
	}
	h := &Host{addr: addr, weight: weight}
	h.healthy.Store(true)
	return h
}

func (h *Host) Address() string        { return h.addr }
func (h *Host) Weight() uint32         { return h.weight }
func (h *Host) ActiveRequests() uint64 { return h.active.Load() }
func (h *Host) Healthy() bool          { return h.healthy.Load() }

// SetHealthy updates this host's health status, as the active
// health-checking collaborator would on a check result transition.
func (h *Host) SetHealthy(healthy bool) { h.healthy.Store(healthy) }

// SetActiveRequests overwrites the active request count, useful for
// constructing deterministic test fixtures.
func (h *Host) SetActiveRequests(n uint64) { h.active.Store(n) }

// IncActiveRequests increments the active request count, as the request
// lifecycle would on dispatch.
func (h *Host) IncActiveRequests() { h.active.Inc() }

// DecActiveRequests decrements the active request count, as the request
// lifecycle would on completion.
func (h *Host) DecActiveRequests() { h.active.Dec() }
