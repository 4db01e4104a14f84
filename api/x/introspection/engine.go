// Copyright (c) 2025 Uber Technologies, Inc.
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

// Package introspection describes the debug snapshot a priority.Engine
// exposes for operational tooling.
package introspection

// IntrospectableEngine extends an engine with a point-in-time status dump.
type IntrospectableEngine interface {
	Introspect() EngineStatus
}

// EngineStatus is a snapshot of which tier an Engine currently considers
// effective and how it is routing within it.
type EngineStatus struct {
	Priority      uint32       `json:"priority"`
	Panicking     bool         `json:"panicking"`
	LocalityState string       `json:"locality_state"`
	Hosts         []HostStatus `json:"hosts"`
}

// HostStatus is a collection of basic host info.
type HostStatus struct {
	Address string `json:"address"`
	Healthy bool   `json:"healthy"`
}
