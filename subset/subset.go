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

// Package subset holds the configuration shape for subset-aware routing.
// Matching hosts against subsets is out of scope here (the membership
// collaborator's concern); this package only parses and exposes the
// configuration record a matcher would consume.
package subset

// FallbackPolicy selects what a subset matcher does when no host group
// matches a request's requested subset. Named after, but not backed by,
// the protobuf enum in the original configuration message.
type FallbackPolicy int

const (
	// NoFallback fails the request when no subset matches.
	NoFallback FallbackPolicy = iota
	// AnyEndpoint falls back to the full, unfiltered host set.
	AnyEndpoint
	// DefaultSubset falls back to the configured default subset.
	DefaultSubset
)

// Selector is one subset selector: a set of metadata keys that together
// define a dimension hosts can be grouped by.
type Selector struct {
	Keys []string
}

// Config is the configuration message subset.New parses.
type Config struct {
	FallbackPolicy FallbackPolicy
	DefaultSubset  map[string]interface{}
	Selectors      []Selector
}

// Info is the immutable, parsed view of a Config. Construct with New;
// Info has no mutators.
type Info struct {
	enabled        bool
	fallbackPolicy FallbackPolicy
	defaultSubset  map[string]interface{}
	selectorKeys   [][]string
}

// New parses cfg into an Info, dropping any selector whose key set is
// empty — an empty key set can never match a host's metadata, so
// carrying it forward would only cost matchers a wasted comparison.
// Info is enabled iff at least one selector survives this filter.
func New(cfg Config) Info {
	keys := make([][]string, 0, len(cfg.Selectors))
	for _, sel := range cfg.Selectors {
		if len(sel.Keys) == 0 {
			continue
		}
		k := make([]string, len(sel.Keys))
		copy(k, sel.Keys)
		keys = append(keys, k)
	}

	return Info{
		enabled:        len(keys) > 0,
		fallbackPolicy: cfg.FallbackPolicy,
		defaultSubset:  cfg.DefaultSubset,
		selectorKeys:   keys,
	}
}

// Enabled reports whether any selector survived construction.
func (i Info) Enabled() bool { return i.enabled }

// FallbackPolicy returns the configured fallback policy.
func (i Info) FallbackPolicy() FallbackPolicy { return i.fallbackPolicy }

// DefaultSubset returns the configured default subset, used when
// FallbackPolicy is DefaultSubset.
func (i Info) DefaultSubset() map[string]interface{} { return i.defaultSubset }

// SelectorKeys returns the surviving selectors' key sets.
func (i Info) SelectorKeys() [][]string { return i.selectorKeys }
