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

package upstream

// Identifier uniquely references a host using a common interface, mirroring
// api/peer.Identifier but scoped to upstream cluster membership rather than
// transport-level peers.
type Identifier interface {
	// Address returns the opaque address that identifies this host (e.g.
	// hostport). Two hosts with the same Address are the same host.
	Address() string
}

// Host is a single upstream endpoint. The core treats a Host's weight and
// health as read-only, and its active request count as a relaxed-atomic
// counter maintained entirely by collaborators outside this module.
type Host interface {
	Identifier

	// Weight is this host's selection weight. Weight is always >= 1.
	Weight() uint32

	// ActiveRequests is the current number of requests in flight to this
	// host, maintained by the request lifecycle outside the core.
	ActiveRequests() uint64

	// Healthy reports the host's current health status, as maintained by
	// the active health-checking collaborator.
	Healthy() bool
}

// Subscription is a handle to a registered membership-change callback. The
// subscriber must call Cancel when it no longer wants notifications; per
// design note, Cancel is idempotent and safe to call more than once.
type Subscription interface {
	Cancel()
}

// HostSetCallback is invoked synchronously, on the subscriber's own worker,
// whenever a HostSet's membership changes. added and removed only describe
// the hosts that newly entered or left the set; recomputation of health
// membership triggers the same callback with both slices empty.
type HostSetCallback func(added, removed []Host)

// HostSet is the set of hosts at one priority tier of a cluster.
type HostSet interface {
	// Priority is this host set's tier (0 = highest).
	Priority() uint32

	// Hosts is the full host list, healthy and unhealthy.
	Hosts() []Host

	// HealthyHosts is the subset of Hosts that are currently healthy.
	HealthyHosts() []Host

	// HostsPerLocality groups Hosts by locality index; index 0 is the
	// local locality when this host set belongs to the local fleet.
	HostsPerLocality() [][]Host

	// HealthyHostsPerLocality groups HealthyHosts by locality index.
	HealthyHostsPerLocality() [][]Host

	// Subscribe registers cb to be invoked on every membership change to
	// this host set. The returned Subscription must be Cancel()ed to stop
	// receiving notifications.
	Subscribe(cb HostSetCallback) Subscription
}

// PrioritySetCallback is invoked synchronously whenever a PrioritySet's
// membership changes at the given priority.
type PrioritySetCallback func(priority uint32)

// PrioritySet is an ordered mapping from priority to HostSet. Priority
// tiers may be sparse; a discovery-layer implementation creates them on
// demand as membership arrives.
type PrioritySet interface {
	// HostSetAt returns the HostSet for the given priority, if it exists.
	HostSetAt(priority uint32) (HostSet, bool)

	// Priorities returns the set of priorities with a HostSet, ascending.
	Priorities() []uint32

	// Subscribe registers cb to be invoked whenever any HostSet in this
	// PrioritySet changes membership, or a new priority tier appears.
	Subscribe(cb PrioritySetCallback) Subscription
}
