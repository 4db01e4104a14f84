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

// Package leastrequest implements the least-request selection discipline:
// equal-weight power-of-two-choices, grounded directly on
// peer/tworandomchoices, plus a weighted-sticky mode that biases traffic
// toward higher-weighted hosts by selection frequency rather than
// scanning every host's weight on each call.
package leastrequest

import (
	"context"

	"github.com/clusterlb/lb/api/runtime"
	"github.com/clusterlb/lb/api/upstream"
	"github.com/clusterlb/lb/priority"
)

// MaxHostWeightFunc reports the current maximum host weight across the
// cluster, read live from the stats sink's gauge on every call.
type MaxHostWeightFunc func() uint32

// Selector chooses the lesser-loaded of two random draws from the
// engine's current eligible hosts, switching to a weighted-sticky mode
// when the cluster's host weights are non-uniform.
//
// Selector assumes the single-worker ownership model spec'd for the
// core: lastHost/hitsLeft are plain fields, not guarded by a lock,
// exactly as tworandomchoices.twoRandomChoicesList's subscriber state
// needs no lock of its own.
type Selector struct {
	engine        *priority.Engine
	runtime       runtime.Runtime
	random        runtime.RandomSource
	maxHostWeight MaxHostWeightFunc

	lastHost upstream.Host
	hitsLeft uint32
}

// New constructs a Selector over engine.
func New(engine *priority.Engine, rt runtime.Runtime, rnd runtime.RandomSource, maxHostWeight MaxHostWeightFunc) *Selector {
	return &Selector{
		engine:        engine,
		runtime:       rt,
		random:        rnd,
		maxHostWeight: maxHostWeight,
	}
}

// OnMembershipChange resets stickiness. The Selector does not subscribe
// to membership changes itself: callers invoke this from an
// api/upstream.PrioritySetCallback registered on the same upstream
// priority set as the engine (it takes no priority argument, so the
// callback wraps it).
func (s *Selector) OnMembershipChange() {
	s.lastHost = nil
	s.hitsLeft = 0
}

// ChooseHost returns a host per spec: equal-weight power-of-two-choices
// when the cluster's hosts are uniformly weighted (or weighting is
// disabled by runtime), weighted-sticky otherwise.
func (s *Selector) ChooseHost(_ context.Context) (upstream.Host, bool) {
	hosts := s.engine.HostsToUse()
	if len(hosts) == 0 {
		return nil, false
	}
	if len(hosts) == 1 {
		return hosts[0], true
	}

	if s.weighted() {
		return s.chooseWeightedSticky(hosts), true
	}
	return s.chooseEqualWeight(hosts), true
}

func (s *Selector) weighted() bool {
	weightEnabled := s.runtime.GetInt(runtime.KeyWeightEnabled, 1) != 0
	return weightEnabled && s.maxHostWeight() > 1
}

func (s *Selector) chooseEqualWeight(hosts []upstream.Host) upstream.Host {
	a := hosts[s.random.Next()%uint64(len(hosts))]
	b := hosts[s.random.Next()%uint64(len(hosts))]
	if b.ActiveRequests() < a.ActiveRequests() {
		return b
	}
	return a
}

func (s *Selector) chooseWeightedSticky(hosts []upstream.Host) upstream.Host {
	if s.hitsLeft > 0 && s.lastHost != nil && contains(hosts, s.lastHost) {
		s.hitsLeft--
		return s.lastHost
	}

	h := hosts[s.random.Next()%uint64(len(hosts))]
	s.lastHost = h
	s.hitsLeft = s.maxHostWeight() - 1
	return h
}

func contains(hosts []upstream.Host, h upstream.Host) bool {
	for _, candidate := range hosts {
		if candidate.Address() == h.Address() {
			return true
		}
	}
	return false
}
