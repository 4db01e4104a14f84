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

// Package stats defines the Sink the load balancing core reports to, and a
// concrete adapter backed by a tally.Scope.
package stats

// Sink is the statistics collaborator named in spec §6. Every method is a
// monotonic counter increment except MaxHostWeight, which is a gauge read
// maintained by the membership collaborator (not written by this module).
type Sink interface {
	IncHealthyPanic()
	IncZoneClusterTooSmall()
	IncZoneNumberDiffers()
	IncZoneRoutingAllDirectly()
	IncZoneRoutingSampled()
	IncZoneRoutingCrossZone()
	IncZoneNoCapacityLeft()
	IncLocalClusterNotOK()

	// MaxHostWeight is the maximum weight across hosts in the cluster,
	// read by the least-request selector. This gauge is populated by the
	// membership collaborator; Sink only exposes the read.
	MaxHostWeight() uint32
}

// Nop is a Sink that discards every increment and reports a max weight of
// 1, matching a cluster where weighting is not yet observed. NewEngine
// defaults a nil sink to Nop the same way peer/abstractlist defaults its logger to
// zap.NewNop(), so the core is usable without a stats backend wired in.
type Nop struct{}

var _ Sink = Nop{}

func (Nop) IncHealthyPanic()           {}
func (Nop) IncZoneClusterTooSmall()    {}
func (Nop) IncZoneNumberDiffers()      {}
func (Nop) IncZoneRoutingAllDirectly() {}
func (Nop) IncZoneRoutingSampled()     {}
func (Nop) IncZoneRoutingCrossZone()   {}
func (Nop) IncZoneNoCapacityLeft()     {}
func (Nop) IncLocalClusterNotOK()      {}
func (Nop) MaxHostWeight() uint32      { return 1 }
