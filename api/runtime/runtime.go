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

// Package runtime declares the feature-flag store and random source
// collaborators consumed by the load balancing core. Both are externally
// owned: the core never constructs a default implementation of either, it
// only reads from them.
package runtime

// Keys are the well-known runtime keys read by this module, with their
// documented defaults.
const (
	// KeyHealthyPanicThreshold is the healthy-percentage floor below which
	// a host set enters panic routing. Default 50.
	KeyHealthyPanicThreshold = "upstream.healthy_panic_threshold"

	// KeyZoneRoutingEnabled gates locality-aware routing globally. Default
	// feature percentage 100.
	KeyZoneRoutingEnabled = "upstream.zone_routing.enabled"

	// KeyZoneRoutingMinClusterSize is the minimum healthy host count,
	// below which locality routing is disabled for a tier. Default 6.
	KeyZoneRoutingMinClusterSize = "upstream.zone_routing.min_cluster_size"

	// KeyWeightEnabled toggles weighted-sticky least-request mode.
	// Default 1 (enabled).
	KeyWeightEnabled = "upstream.weight_enabled"
)

// Runtime is the feature-flag store consulted by the core. Implementations
// typically layer a dynamic override source over static defaults; this
// module only ever calls GetInt/FeatureEnabled with the documented default,
// and never mutates the store.
type Runtime interface {
	// GetInt returns the integer value of key, or def if key is unset.
	GetInt(key string, def int64) int64

	// FeatureEnabled reports whether the feature gated by key is enabled.
	// defPercent is the default rollout percentage (0-100) used when key
	// is unset.
	FeatureEnabled(key string, defPercent int64) bool
}

// RandomSource is the core's only source of randomness. Implementations
// must be either thread-local or internally synchronized, since a single
// LoadBalancer's RandomSource may be shared across workers.
type RandomSource interface {
	// Next returns the next pseudo-random value in the stream.
	Next() uint64
}
