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

package random

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

func (fakeRuntime) GetInt(string, int64) int64       { return 0 }
func (fakeRuntime) FeatureEnabled(string, int64) bool { return false }

type fakeRandom struct{ v uint64 }

func (r fakeRandom) Next() uint64 { return r.v }

func TestSelectorPicksByDrawModuloCount(t *testing.T) {
	ps := hostset.NewPrioritySet()
	hosts := []upstream.Host{
		hostset.NewHost("a:1", 1),
		hostset.NewHost("b:1", 1),
		hostset.NewHost("c:1", 1),
	}
	ps.UpdateHostSet(0, [][]upstream.Host{hosts})
	engine := priority.NewEngine(ps, nil, fakeRuntime{}, fakeRandom{}, nil)

	sel := New(engine, fakeRandom{v: 4}) // 4 % 3 == 1
	h, ok := sel.ChooseHost(context.Background())
	require.True(t, ok)
	assert.Equal(t, "b:1", h.Address())
}

func TestSelectorNoHostsReturnsFalse(t *testing.T) {
	ps := hostset.NewPrioritySet()
	engine := priority.NewEngine(ps, nil, fakeRuntime{}, fakeRandom{}, nil)
	sel := New(engine, fakeRandom{})

	_, ok := sel.ChooseHost(context.Background())
	assert.False(t, ok)
}
