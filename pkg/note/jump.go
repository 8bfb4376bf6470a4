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

package note

// A Jmp is the jump buffer a dispatch frame arms before invoking the
// handler. Noted unwinds back to the owning frame by panicking with
// the buffer itself; the trampoline recovers only its own buffer and
// re-raises everything else.
type Jmp struct {
	armed bool
	kind  Disposition
}

func (j *Jmp) arm() {
	j.armed = true
	j.kind = Default
}

func (j *Jmp) disarm() {
	j.armed = false
}

// theJmp is the one buffer behind the default provider.
var theJmp Jmp

// JumpBuffer yields the jump buffer for the current dispatch context.
// The default provider returns a single process-wide buffer, which is
// all the built-in serial dispatcher needs. A host that runs dispatch
// frames on contexts of its own must install a per-context provider
// before any dispatch can begin. The dispatcher re-fetches through
// this slot on every delivery and never caches the result.
var JumpBuffer = func() *Jmp {
	return &theJmp
}
