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

// Package roundrobin implements the round-robin selection discipline on
// top of a priority.Engine.
package roundrobin

import (
	"context"

	"go.uber.org/atomic"

	"github.com/clusterlb/lb/api/upstream"
	"github.com/clusterlb/lb/priority"
)

// Selector chooses hosts from priority.Engine.HostsToUse in a fixed
// rotation. Unlike peer/roundrobin.List, which threads a container/ring
// through incremental add/remove notifications, Selector recomputes its
// candidate list fresh on every call (HostsToUse already does the
// equivalent work) and only needs a monotonic cursor to rotate through
// whatever that call returns.
type Selector struct {
	engine *priority.Engine
	cursor atomic.Uint64
}

// New constructs a Selector over engine.
func New(engine *priority.Engine) *Selector {
	return &Selector{engine: engine}
}

// ChooseHost returns the next host in rotation among the engine's
// current eligible hosts, or false if none are eligible. The cursor
// always advances, even when the candidate list is empty, so that a
// momentary gap in membership doesn't bias which host is chosen once
// membership recovers.
func (s *Selector) ChooseHost(_ context.Context) (upstream.Host, bool) {
	hosts := s.engine.HostsToUse()
	idx := s.cursor.Inc() - 1
	if len(hosts) == 0 {
		return nil, false
	}
	return hosts[idx%uint64(len(hosts))], true
}
