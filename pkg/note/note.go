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

// Package note implements Plan 9 notes on top of the host's POSIX
// signals.
//
// A program registers one process-wide handler with Notify. The
// handler receives each note as a string ("hangup", "interrupt",
// "alarm") and finishes it with Noted: Continue resumes the
// interrupted flow, Default hands the signal back to the platform and
// the process dies by it, as does a handler that returns without
// calling Noted. Individual notes can be held and released (Disable,
// Enable), routed to the handler (NotifyOn), or accepted and dropped
// (NotifyOff). Post delivers a note to another process.
//
// SIGABRT and SIGSEGV are never intercepted, so aborts and stray
// memory accesses still produce the runtime's post-mortem state, and
// there is no note for SIGKILL because the platform will not deliver
// it. A Plan 9 kill arrives as the note "kill", carried by SIGTERM.
package note

import (
	"fmt"

	"gvisor.dev/p9note/pkg/sigstr"
)

// Handler receives notes. The first argument exists for compatibility
// with Plan 9, where a handler is shown the saved machine state; it is
// always nil here. A handler that recovers panics must re-raise values
// it does not recognize, or Noted cannot unwind past it.
type Handler func(ureg any, msg string)

// Disposition is a handler's choice of what happens when it finishes
// with a note.
type Disposition int

const (
	// Default gives the signal back to the platform: the process
	// terminates, dumping core when the platform would.
	Default Disposition = iota

	// Continue resumes the interrupted flow as if the note had not
	// arrived.
	Continue
)

// Notify registers f as the process-wide note handler, replacing any
// previous one. The first call also initializes dispatch: every table
// row whose signal is not already spoken for gets its default mask and
// dispatch state. Rows claimed beforehand by NotifyOn or NotifyOff, or
// ignored before this package touched them, keep their existing
// disposition.
//
// A nil f clears the handler; notes dispatched while no handler is set
// take the platform default.
func Notify(f Handler) {
	if f == nil {
		handler.Store(nil)
	} else {
		handler.Store(&f)
	}
	mu.Lock()
	defer mu.Unlock()
	initRows()
}

// Noted finishes the handling of the current note; it never returns.
// Continue resumes the interrupted flow. Default reinstates the
// platform's handling of the signal and the process terminates by it.
// Calling Noted outside a handler, or with a disposition it does not
// know, aborts the process.
func Noted(k Disposition) {
	if k != Continue && k != Default {
		panic(fmt.Sprintf("note: Noted(%d): unsupported disposition", int(k)))
	}
	j := JumpBuffer()
	if !j.armed {
		panic("note: Noted called outside a note handler")
	}
	j.kind = k
	panic(j)
}

// Enable makes the named note deliverable, releasing at most one
// delivery held while it was disabled. Unknown names are no-ops.
func Enable(msg string) {
	setEnabled(msg, true)
}

// Disable holds deliveries of the named note until the next Enable.
// Unknown names are no-ops.
func Disable(msg string) {
	setEnabled(msg, false)
}

// NotifyOn routes the named note to the registered handler and makes
// it deliverable. Called before the first Notify, it also claims the
// row, so registration will not reset it to the table default.
func NotifyOn(msg string) {
	setNotified(msg, true)
}

// NotifyOff installs the silent path for the named note: deliveries
// are accepted and dropped without invoking the handler. The mask is
// left as it is.
func NotifyOff(msg string) {
	setNotified(msg, false)
}

func setEnabled(msg string, on bool) {
	sig := sigstr.Signal(msg)
	if sig == 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	r := stateFor(sig)
	if r == nil {
		return
	}
	r.enabled = on
	if on && pending.Contains(sig) {
		wake()
	}
}

func setNotified(msg string, on bool) {
	sig := sigstr.Signal(msg)
	if sig == 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	r := stateFor(sig)
	if r == nil {
		return
	}
	r.claimed = true
	r.notified = on
	if on {
		r.enabled = true
		if pending.Contains(sig) {
			wake()
		}
	}
	subscribe(r)
}
