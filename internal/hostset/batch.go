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

package hostset

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/clusterlb/lb/api/upstream"
)

// TierUpdate is one tier's worth of membership to apply in a BatchUpdate.
type TierUpdate struct {
	Priority   uint32
	ByLocality [][]upstream.Host
}

// BatchUpdate applies every update in updates in order, validating each
// tier independently just before applying it. A tier whose ByLocality contains
// the same address twice is invalid; validation failures across
// different tiers are accumulated with multierr rather than
// short-circuiting on the first bad tier, mirroring
// peer/abstractlist.List.updateOnline's use of multierr.Append so that a
// single malformed tier in a batch doesn't hide errors in the others.
// Valid tiers are applied even when other tiers in the same batch fail.
func (ps *PrioritySet) BatchUpdate(updates []TierUpdate) error {
	var err error
	for _, u := range updates {
		if dup := firstDuplicateAddress(u.ByLocality); dup != "" {
			err = multierr.Append(err, fmt.Errorf("hostset: priority %d: duplicate host address %q", u.Priority, dup))
			continue
		}
		ps.UpdateHostSet(u.Priority, u.ByLocality)
	}
	return err
}

func firstDuplicateAddress(byLocality [][]upstream.Host) string {
	seen := make(map[string]struct{})
	for _, locality := range byLocality {
		for _, h := range locality {
			if _, ok := seen[h.Address()]; ok {
				return h.Address()
			}
			seen[h.Address()] = struct{}{}
		}
	}
	return ""
}
