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

package stats

import (
	"go.uber.org/atomic"

	"github.com/uber-go/tally"
)

const (
	counterHealthyPanic         = "lb_healthy_panic"
	counterZoneClusterTooSmall  = "lb_zone_cluster_too_small"
	counterZoneNumberDiffers    = "lb_zone_number_differs"
	counterZoneRoutingAllDirect = "lb_zone_routing_all_directly"
	counterZoneRoutingSampled   = "lb_zone_routing_sampled"
	counterZoneRoutingCrossZone = "lb_zone_routing_cross_zone"
	counterZoneNoCapacityLeft   = "lb_zone_no_capacity_left"
	counterLocalClusterNotOK    = "lb_local_cluster_not_ok"
	gaugeMaxHostWeight          = "max_host_weight"
)

// TallySink reports the core's counters through a tally.Scope, and
// publishes the max_host_weight gauge there once, with value 1, at
// construction; SetMaxHostWeight changes the value MaxHostWeight returns
// but does not update that gauge. Callers own scope's construction and export
// path (in-memory for tests, or a real CachedStatsReporter such as
// tally/m3 or tally/statsd in production); TallySink only ever calls
// Counter/Gauge on it.
type TallySink struct {
	healthyPanic         tally.Counter
	zoneClusterTooSmall  tally.Counter
	zoneNumberDiffers    tally.Counter
	zoneRoutingAllDirect tally.Counter
	zoneRoutingSampled   tally.Counter
	zoneRoutingCrossZone tally.Counter
	zoneNoCapacityLeft   tally.Counter
	localClusterNotOK    tally.Counter

	maxHostWeight atomic.Uint32
}

var _ Sink = (*TallySink)(nil)

// NewTallySink constructs a Sink backed by scope. The returned sink owns
// no goroutines and needs no Close; every counter is created eagerly so
// that MaxHostWeight, which the membership collaborator writes via
// SetMaxHostWeight, starts at its spec-mandated default of 1 (equal-weight
// mode) until observed otherwise.
func NewTallySink(scope tally.Scope) *TallySink {
	s := &TallySink{
		healthyPanic:         scope.Counter(counterHealthyPanic),
		zoneClusterTooSmall:  scope.Counter(counterZoneClusterTooSmall),
		zoneNumberDiffers:    scope.Counter(counterZoneNumberDiffers),
		zoneRoutingAllDirect: scope.Counter(counterZoneRoutingAllDirect),
		zoneRoutingSampled:   scope.Counter(counterZoneRoutingSampled),
		zoneRoutingCrossZone: scope.Counter(counterZoneRoutingCrossZone),
		zoneNoCapacityLeft:   scope.Counter(counterZoneNoCapacityLeft),
		localClusterNotOK:    scope.Counter(counterLocalClusterNotOK),
	}
	s.maxHostWeight.Store(1)
	scope.Gauge(gaugeMaxHostWeight).Update(1)
	return s
}

func (s *TallySink) IncHealthyPanic()           { s.healthyPanic.Inc(1) }
func (s *TallySink) IncZoneClusterTooSmall()    { s.zoneClusterTooSmall.Inc(1) }
func (s *TallySink) IncZoneNumberDiffers()      { s.zoneNumberDiffers.Inc(1) }
func (s *TallySink) IncZoneRoutingAllDirectly() { s.zoneRoutingAllDirect.Inc(1) }
func (s *TallySink) IncZoneRoutingSampled()     { s.zoneRoutingSampled.Inc(1) }
func (s *TallySink) IncZoneRoutingCrossZone()   { s.zoneRoutingCrossZone.Inc(1) }
func (s *TallySink) IncZoneNoCapacityLeft()     { s.zoneNoCapacityLeft.Inc(1) }
func (s *TallySink) IncLocalClusterNotOK()      { s.localClusterNotOK.Inc(1) }

// SetMaxHostWeight records the current maximum host weight across the
// cluster. The membership collaborator calls this on every membership
// update; the least-request selector only ever reads it.
func (s *TallySink) SetMaxHostWeight(w uint32) {
	s.maxHostWeight.Store(w)
}

func (s *TallySink) MaxHostWeight() uint32 {
	return s.maxHostWeight.Load()
}
