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

// Package random implements the uniform-random selection discipline,
// grounded directly on peer/randpeer.
package random

import (
	"context"

	"github.com/clusterlb/lb/api/runtime"
	"github.com/clusterlb/lb/api/upstream"
	"github.com/clusterlb/lb/priority"
)

// Selector draws uniformly from the engine's current eligible hosts.
type Selector struct {
	engine *priority.Engine
	random runtime.RandomSource
}

// New constructs a Selector over engine.
func New(engine *priority.Engine, rnd runtime.RandomSource) *Selector {
	return &Selector{engine: engine, random: rnd}
}

// ChooseHost returns a uniformly random host among the engine's current
// eligible hosts, or false if none are eligible.
func (s *Selector) ChooseHost(_ context.Context) (upstream.Host, bool) {
	hosts := s.engine.HostsToUse()
	if len(hosts) == 0 {
		return nil, false
	}
	return hosts[s.random.Next()%uint64(len(hosts))], true
}
