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

package roundrobin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterlb/lb/api/upstream"
	"github.com/clusterlb/lb/internal/hostset"
	"github.com/clusterlb/lb/priority"
)

type fakeRuntime struct{}

func (fakeRuntime) GetInt(string, int64) int64        { return 0 }
func (fakeRuntime) FeatureEnabled(string, int64) bool { return false }

type fakeRandom struct{}

func (fakeRandom) Next() uint64 { return 0 }

func newTestEngine(t *testing.T, addrs ...string) *priority.Engine {
	t.Helper()
	ps := hostset.NewPrioritySet()
	hosts := make([]upstream.Host, len(addrs))
	for i, a := range addrs {
		hosts[i] = hostset.NewHost(a, 1)
	}
	ps.UpdateHostSet(0, [][]upstream.Host{hosts})
	return priority.NewEngine(ps, nil, fakeRuntime{}, fakeRandom{}, nil)
}

// With N healthy hosts and no membership change, any window of N
// consecutive ChooseHost calls visits each host exactly once.
func TestSelectorVisitsEachHostOnce(t *testing.T) {
	engine := newTestEngine(t, "a:1", "b:1", "c:1")
	s := New(engine)

	seen := make(map[string]int)
	for i := 0; i < 3; i++ {
		h, ok := s.ChooseHost(context.Background())
		require.True(t, ok)
		seen[h.Address()]++
	}

	assert.Equal(t, map[string]int{"a:1": 1, "b:1": 1, "c:1": 1}, seen)
}

func TestSelectorWrapsAround(t *testing.T) {
	engine := newTestEngine(t, "a:1", "b:1")
	s := New(engine)

	var got []string
	for i := 0; i < 5; i++ {
		h, ok := s.ChooseHost(context.Background())
		require.True(t, ok)
		got = append(got, h.Address())
	}

	assert.Equal(t, []string{"a:1", "b:1", "a:1", "b:1", "a:1"}, got)
}

func TestSelectorNoHostsReturnsFalse(t *testing.T) {
	ps := hostset.NewPrioritySet()
	engine := priority.NewEngine(ps, nil, fakeRuntime{}, fakeRandom{}, nil)
	s := New(engine)

	_, ok := s.ChooseHost(context.Background())
	assert.False(t, ok)
}
