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

// Package priority implements the PriorityState Engine: the shared core
// that every selector (roundrobin, leastrequest, random) delegates to for
// picking which tier and which localities within that tier are eligible
// for this call.
package priority

// localityRoutingState is the per-tier classification that
// regenerateLocalityRoutingStructures computes and tryChooseLocalLocalityHosts
// consumes.
type localityRoutingState int

const (
	// noLocalityRouting means tryChooseLocalLocalityHosts is skipped
	// entirely; HostsToUse returns the tier's healthy hosts unfiltered.
	noLocalityRouting localityRoutingState = iota
	// localityDirect means the local locality has at least as much
	// upstream capacity as local traffic share; always route to locality 0.
	localityDirect
	// localityResidual means upstream capacity in the local locality is
	// short of local traffic share; some fraction of calls spill over to
	// other localities, weighted by each locality's residual capacity.
	localityResidual
)

func (s localityRoutingState) String() string {
	switch s {
	case localityDirect:
		return "locality_direct"
	case localityResidual:
		return "locality_residual"
	default:
		return "no_locality_routing"
	}
}

// perPriorityState is the per-tier routing state computed by
// regenerateLocalityRoutingStructures. The zero value is noLocalityRouting
// with no residual capacity, which is also the correct state for a tier
// that has not yet received a membership update.
type perPriorityState struct {
	state               localityRoutingState
	localPercentToRoute uint64
	residualCapacity    []uint64
}
