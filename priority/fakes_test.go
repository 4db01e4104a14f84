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

// fakeRuntime is a hand-written Runtime fake, following yarpctest's
// fake-over-mock bias: this interface has two methods, too small to be
// worth a generated mock.
type fakeRuntime struct {
	ints     map[string]int64
	features map[string]bool
}

func (r *fakeRuntime) GetInt(key string, def int64) int64 {
	if v, ok := r.ints[key]; ok {
		return v
	}
	return def
}

func (r *fakeRuntime) FeatureEnabled(key string, defPercent int64) bool {
	if v, ok := r.features[key]; ok {
		return v
	}
	return defPercent >= 100
}

// fakeRandom replays a fixed sequence of draws, repeating the last value
// once exhausted. Test vectors specify how many draws a branch consumes,
// per design note §9; sequence order matters.
type fakeRandom struct {
	seq []uint64
	n   int
}

func (r *fakeRandom) Next() uint64 {
	if len(r.seq) == 0 {
		return 0
	}
	i := r.n
	if i >= len(r.seq) {
		i = len(r.seq) - 1
	}
	r.n++
	return r.seq[i]
}
