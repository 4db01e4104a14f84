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
	"github.com/clusterlb/lb/api/runtime"
	"github.com/clusterlb/lb/api/upstream"
)

// IsGlobalPanic reports whether hs's healthy-host percentage has fallen
// below the configured panic threshold, kept as a standalone function
// (rather than an Engine method) so it is independently testable against
// a bare HostSet fixture, mirroring the original implementation's
// separation of the panic check from the load balancer base class.
//
// A host set with zero total hosts never panics: there is nothing to
// degrade to.
func IsGlobalPanic(hs upstream.HostSet, rt runtime.Runtime) bool {
	total := len(hs.Hosts())
	if total == 0 {
		return false
	}

	threshold := rt.GetInt(runtime.KeyHealthyPanicThreshold, 50)
	if threshold < 0 {
		threshold = 0
	} else if threshold > 100 {
		threshold = 100
	}

	healthyPercent := int64(100*len(hs.HealthyHosts())) / int64(total)
	return healthyPercent < threshold
}
