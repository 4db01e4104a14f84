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

package priority

import (
	"sync"

	"go.uber.org/zap"

	"github.com/clusterlb/lb/api/runtime"
	"github.com/clusterlb/lb/api/upstream"
	"github.com/clusterlb/lb/api/x/introspection"
	"github.com/clusterlb/lb/pkg/lifecycle"
	"github.com/clusterlb/lb/stats"
)

var _ introspection.IntrospectableEngine = (*Engine)(nil)

// Engine is the shared core every selector delegates to for choosing
// which hosts are eligible for a call: it picks the effective priority
// tier (honoring panic routing) and, within that tier, the eligible
// localities (honoring zone-aware routing). Engine owns no goroutines;
// callers are expected to own it from a single worker, per the
// single-threaded cooperative ownership model this module assumes
// throughout (membership callbacks are the only re-entrant path, and
// they only ever mutate under mu).
type Engine struct {
	upstream upstream.PrioritySet
	local    upstream.PrioritySet

	runtime runtime.Runtime
	random  runtime.RandomSource
	sink    stats.Sink
	logger  *zap.Logger

	mu            sync.RWMutex
	perPriority   []perPriorityState
	bestAvailable upstream.HostSet

	upstreamSub upstream.Subscription
	localSub    upstream.Subscription

	once *lifecycle.Once
}

// NewEngine constructs an Engine wired to upstream (required) and local
// (optional, pass nil to disable zone-aware routing entirely). It
// immediately computes locality-routing state for every tier already
// present in upstream, then subscribes to both priority sets so that
// later membership changes keep that state current.
func NewEngine(
	ups upstream.PrioritySet,
	local upstream.PrioritySet,
	rt runtime.Runtime,
	rnd runtime.RandomSource,
	sink stats.Sink,
	opts ...Option,
) *Engine {
	cfg := defaultOptions
	for _, o := range opts {
		o.apply(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = stats.Nop{}
	}

	e := &Engine{
		upstream: ups,
		local:    local,
		runtime:  rt,
		random:   rnd,
		sink:     sink,
		logger:   logger,
		once:     lifecycle.NewOnce(),
	}

	e.mu.Lock()
	e.resizePerPriorityState()
	for _, p := range ups.Priorities() {
		e.regenerateLocalityRoutingStructures(p)
	}
	e.recomputeBestAvailableLocked()
	e.mu.Unlock()

	e.upstreamSub = ups.Subscribe(e.onUpstreamChange)
	if local != nil {
		e.localSub = local.Subscribe(e.onLocalChange)
	}

	e.once.Start(nil)

	return e
}

// Close releases this Engine's subscriptions to both priority sets. An
// Engine must not be used after Close. Close is safe to call more than
// once; only the first call cancels the subscriptions.
func (e *Engine) Close() error {
	return e.once.Stop(func() error {
		if e.upstreamSub != nil {
			e.upstreamSub.Cancel()
		}
		if e.localSub != nil {
			e.localSub.Cancel()
		}
		return nil
	})
}

// Introspect returns a snapshot of the effective tier and its
// locality-routing state, for operational tooling. It never consumes a
// RandomSource draw and has no effect on HostsToUse's own caching.
func (e *Engine) Introspect() introspection.EngineStatus {
	e.mu.RLock()
	hs := e.bestAvailable
	var pps *perPriorityState
	if hs != nil {
		pps = e.stateFor(hs.Priority())
	}
	e.mu.RUnlock()

	if hs == nil {
		return introspection.EngineStatus{LocalityState: noLocalityRouting.String()}
	}

	state := noLocalityRouting
	if pps != nil {
		state = pps.state
	}

	hosts := hs.Hosts()
	statuses := make([]introspection.HostStatus, len(hosts))
	for i, h := range hosts {
		statuses[i] = introspection.HostStatus{Address: h.Address(), Healthy: h.Healthy()}
	}

	return introspection.EngineStatus{
		Priority:      hs.Priority(),
		Panicking:     IsGlobalPanic(hs, e.runtime),
		LocalityState: state.String(),
		Hosts:         statuses,
	}
}

// HostsToUse returns the hosts eligible for this call: the cached
// effective tier's full host list if that tier is panicking, its
// healthy hosts if locality routing doesn't apply, or the locality
// subset tryChooseLocalLocalityHosts selects otherwise. A nil result
// means no tier has any hosts at all.
func (e *Engine) HostsToUse() []upstream.Host {
	e.mu.RLock()
	hs := e.bestAvailable
	e.mu.RUnlock()

	if hs == nil {
		return nil
	}

	if IsGlobalPanic(hs, e.runtime) {
		e.sink.IncHealthyPanic()
		return hs.Hosts()
	}

	e.mu.RLock()
	pps := e.stateFor(hs.Priority())
	e.mu.RUnlock()

	if pps == nil || pps.state == noLocalityRouting {
		return hs.HealthyHosts()
	}

	return e.tryChooseLocalLocalityHosts(hs, pps)
}

func (e *Engine) onUpstreamChange(priority uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resizePerPriorityState()
	e.regenerateLocalityRoutingStructures(priority)
	e.recomputeBestAvailableLocked()
}

func (e *Engine) onLocalChange(uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.upstream.Priorities() {
		e.regenerateLocalityRoutingStructures(p)
	}
	e.recomputeBestAvailableLocked()
}

// recomputeBestAvailableLocked implements the effective-tier scan: the
// lowest-numbered tier with at least one healthy host, or priority 0 if
// every tier is fully unhealthy. Caller must hold mu.
func (e *Engine) recomputeBestAvailableLocked() {
	for _, p := range e.upstream.Priorities() {
		hs, ok := e.upstream.HostSetAt(p)
		if ok && len(hs.HealthyHosts()) > 0 {
			e.bestAvailable = hs
			return
		}
	}
	hs, ok := e.upstream.HostSetAt(0)
	if !ok {
		e.bestAvailable = nil
		return
	}
	e.bestAvailable = hs
}

// resizePerPriorityState grows perPriority to cover every priority
// currently present in the upstream set. Per design, it only ever
// grows: once a tier's slot exists it is never removed, even if that
// tier's HostSet later becomes empty. Caller must hold mu.
func (e *Engine) resizePerPriorityState() {
	var max uint32
	for _, p := range e.upstream.Priorities() {
		if p > max {
			max = p
		}
	}
	need := int(max) + 1
	if len(e.perPriority) >= need {
		return
	}
	grown := make([]perPriorityState, need)
	copy(grown, e.perPriority)
	e.perPriority = grown
}

// stateFor returns the per-tier locality-routing state for priority, or
// nil if resizePerPriorityState has never grown far enough to cover it
// (meaning no membership update has ever been observed for that tier).
// Caller must hold at least a read lock.
func (e *Engine) stateFor(priority uint32) *perPriorityState {
	if int(priority) >= len(e.perPriority) {
		return nil
	}
	return &e.perPriority[priority]
}

// regenerateLocalityRoutingStructures recomputes the locality-routing
// state for the tier at priority, following load_balancer_impl.h's
// method of the same name. Caller must hold mu.
func (e *Engine) regenerateLocalityRoutingStructures(priority uint32) {
	pps := e.stateFor(priority)
	if pps == nil {
		return
	}

	hs, ok := e.upstream.HostSetAt(priority)
	if !ok {
		*pps = perPriorityState{}
		return
	}

	if e.local == nil || e.earlyExitNonLocalityRouting(priority, hs) {
		*pps = perPriorityState{state: noLocalityRouting}
		return
	}

	localHS, _ := e.local.HostSetAt(0)
	localPct := calculateLocalityPercentage(localHS.HealthyHostsPerLocality())
	upstreamPct := calculateLocalityPercentage(hs.HealthyHostsPerLocality())

	if upstreamPct[0] >= localPct[0] {
		*pps = perPriorityState{state: localityDirect}
		return
	}

	next := perPriorityState{state: localityResidual}
	if localPct[0] > 0 {
		next.localPercentToRoute = upstreamPct[0] * 10000 / localPct[0]
	}

	residual := make([]uint64, len(upstreamPct))
	for i := 1; i < len(upstreamPct) && i < len(localPct); i++ {
		if upstreamPct[i] > localPct[i] {
			residual[i] = upstreamPct[i] - localPct[i]
		}
	}
	next.residualCapacity = residual

	*pps = next
	e.logger.Debug("locality routing state regenerated",
		zap.Uint32("priority", priority),
		zap.Int("state", int(next.state)),
		zap.Uint64("local_percent_to_route", next.localPercentToRoute),
	)
}

// earlyExitNonLocalityRouting implements the five rules from
// load_balancer_impl.h that force NoLocalityRouting for this tier,
// regardless of what regenerateLocalityRoutingStructures would otherwise
// compute. Caller must hold mu.
func (e *Engine) earlyExitNonLocalityRouting(priority uint32, hs upstream.HostSet) bool {
	if e.local == nil {
		return true
	}
	localHS, ok := e.local.HostSetAt(0)
	if !ok || len(localHS.Hosts()) == 0 {
		return true
	}

	if !e.runtime.FeatureEnabled(runtime.KeyZoneRoutingEnabled, 100) {
		return true
	}

	if IsGlobalPanic(hs, e.runtime) {
		return true
	}

	minClusterSize := e.runtime.GetInt(runtime.KeyZoneRoutingMinClusterSize, 6)
	if int64(len(hs.HealthyHosts())) < minClusterSize {
		e.sink.IncZoneClusterTooSmall()
		return true
	}

	if len(localHS.HealthyHostsPerLocality()) != len(hs.HealthyHostsPerLocality()) {
		e.sink.IncZoneNumberDiffers()
		return true
	}

	return false
}

// tryChooseLocalLocalityHosts implements the LocalityDirect/LocalityResidual
// selection documented in spec.md §4.1, consuming no RandomSource draw
// for LocalityDirect and one or two for LocalityResidual.
func (e *Engine) tryChooseLocalLocalityHosts(hs upstream.HostSet, pps *perPriorityState) []upstream.Host {
	localHS, ok := e.local.HostSetAt(0)
	if !ok || len(localHS.HealthyHosts()) == 0 {
		e.sink.IncLocalClusterNotOK()
		return hs.HealthyHosts()
	}

	healthyByLocality := hs.HealthyHostsPerLocality()

	switch pps.state {
	case localityDirect:
		e.sink.IncZoneRoutingAllDirectly()
		return localityOrEmpty(healthyByLocality, 0)

	case localityResidual:
		r1 := e.random.Next() % 10000
		if r1 < pps.localPercentToRoute {
			e.sink.IncZoneRoutingSampled()
			return localityOrEmpty(healthyByLocality, 0)
		}

		total := sumResidual(pps.residualCapacity)
		if total == 0 {
			e.sink.IncZoneNoCapacityLeft()
			return hs.HealthyHosts()
		}

		r2 := e.random.Next() % total
		var running uint64
		for i := 1; i < len(pps.residualCapacity); i++ {
			running += pps.residualCapacity[i]
			if r2 < running {
				e.sink.IncZoneRoutingCrossZone()
				return localityOrEmpty(healthyByLocality, i)
			}
		}
		// total > 0 guarantees some i satisfies the loop above; reaching
		// here means residualCapacity and total disagree, which should
		// not happen.
		e.sink.IncZoneNoCapacityLeft()
		return hs.HealthyHosts()

	default:
		return hs.HealthyHosts()
	}
}
