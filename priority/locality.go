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

import "github.com/clusterlb/lb/api/upstream"

// calculateLocalityPercentage returns, for each locality bucket in
// hostsPerLocality, its share of the total host count scaled by 10000
// (so 3333 means 33.33%), floored to an integer. A nil or all-empty input
// returns all zeros rather than dividing by zero.
func calculateLocalityPercentage(hostsPerLocality [][]upstream.Host) []uint64 {
	pct := make([]uint64, len(hostsPerLocality))

	var total uint64
	for _, locality := range hostsPerLocality {
		total += uint64(len(locality))
	}
	if total == 0 {
		return pct
	}

	for i, locality := range hostsPerLocality {
		pct[i] = 10000 * uint64(len(locality)) / total
	}
	return pct
}

func sumResidual(residual []uint64) uint64 {
	var sum uint64
	for _, r := range residual {
		sum += r
	}
	return sum
}

// localityOrEmpty returns hostsPerLocality[i], or an empty slice if i is
// out of range. tryChooseLocalLocalityHosts relies on earlyExitNonLocalityRouting
// having already verified the upstream and local locality counts match, so
// out-of-range access is defensive rather than expected.
func localityOrEmpty(hostsPerLocality [][]upstream.Host, i int) []upstream.Host {
	if i < 0 || i >= len(hostsPerLocality) {
		return nil
	}
	return hostsPerLocality[i]
}
