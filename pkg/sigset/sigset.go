// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sigset provides a signal set in the kernel's sigset layout,
// one bit per signal number.
package sigset

import (
	"fmt"
	"math/bits"
	"strings"

	"golang.org/x/sys/unix"

	"gvisor.dev/p9note/pkg/sigstr"
)

// Set is a set of signals. Bit N-1 holds signal N, matching the kernel
// layout, so signals 1 through 64 are representable. Out-of-range
// signals, including the reserved signal 0, are ignored by every
// operation.
type Set uint64

// maxSignal is the largest signal number a Set can hold.
const maxSignal = 64

// Of returns a Set holding the given signals.
func Of(sigs ...unix.Signal) Set {
	var s Set
	for _, sig := range sigs {
		s.Add(sig)
	}
	return s
}

// Add inserts sig into the set.
func (s *Set) Add(sig unix.Signal) {
	if sig < 1 || sig > maxSignal {
		return
	}
	*s |= 1 << (uint(sig) - 1)
}

// Remove deletes sig from the set.
func (s *Set) Remove(sig unix.Signal) {
	if sig < 1 || sig > maxSignal {
		return
	}
	*s &^= 1 << (uint(sig) - 1)
}

// Contains reports whether sig is in the set.
func (s Set) Contains(sig unix.Signal) bool {
	if sig < 1 || sig > maxSignal {
		return false
	}
	return s&(1<<(uint(sig)-1)) != 0
}

// Empty reports whether the set holds no signals.
func (s Set) Empty() bool {
	return s == 0
}

// ForEach invokes f for each signal in the set, in ascending order.
func (s Set) ForEach(f func(sig unix.Signal)) {
	for v := uint64(s); v != 0; {
		i := bits.TrailingZeros64(v)
		f(unix.Signal(i + 1))
		v &^= 1 << uint(i)
	}
}

// String renders the set as the note names of its members.
func (s Set) String() string {
	var notes []string
	s.ForEach(func(sig unix.Signal) {
		notes = append(notes, sigstr.Name(sig))
	})
	return fmt.Sprintf("[%v]", strings.Join(notes, " "))
}
