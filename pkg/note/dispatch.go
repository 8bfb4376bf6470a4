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

import (
	"os"
	"os/signal"
	"reflect"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"gvisor.dev/p9note/pkg/sigset"
	"gvisor.dev/p9note/pkg/sigstr"
)

// handler is the registered note handler, published by Notify and read
// by the dispatcher on every delivery.
var handler atomic.Pointer[Handler]

var (
	mu      sync.Mutex // guards rows, pending, and inited
	rows    = make(map[unix.Signal]*sigState)
	pending sigset.Set // deliveries held while their row is disabled
	inited  bool
	ctl     chan struct{} // wakes the dispatcher after a config change
)

// sigState is the live counterpart of a table row.
type sigState struct {
	entry    Entry
	enabled  bool
	notified bool
	claimed  bool           // row taken by NotifyOn or NotifyOff; init leaves it alone
	ch       chan os.Signal // non-nil once subscribed
}

// stateFor returns the live state for sig, creating it on first touch.
// Signals outside the table have no state. Callers hold mu.
func stateFor(sig unix.Signal) *sigState {
	if r, ok := rows[sig]; ok {
		return r
	}
	e := lookup(sig)
	if e == nil {
		return nil
	}
	r := &sigState{entry: *e}
	rows[sig] = r
	return r
}

// initRows applies table defaults to every row not already spoken for.
// It runs once, at the first registration. Callers hold mu.
func initRows() {
	if inited {
		return
	}
	inited = true
	for i := range sigTab {
		e := &sigTab[i]
		r := stateFor(e.Sig)
		if r.claimed {
			// NotifyOn or NotifyOff got here first; the row is
			// already set up the way the caller asked.
			continue
		}
		if signal.Ignored(e.Sig) {
			// The disposition was chosen before this package ran;
			// the slot belongs to whoever chose it.
			continue
		}
		r.enabled = e.Enabled
		r.notified = e.Notified
		subscribe(r)
	}
}

// subscribe starts kernel delivery for the row. Capacity 1 is enough:
// standard signals coalesce, the way a kernel holds at most one
// pending instance of each. Callers hold mu.
func subscribe(r *sigState) {
	if r.ch != nil {
		return
	}
	r.ch = make(chan os.Signal, 1)
	signal.Notify(r.ch, r.entry.Sig)
	wake()
}

// wake nudges the dispatcher to rebuild its select set and release any
// newly deliverable pending signals, starting it on first use. Callers
// hold mu.
func wake() {
	if ctl == nil {
		ctl = make(chan struct{}, 1)
		go dispatch()
	}
	select {
	case ctl <- struct{}{}:
	default:
	}
}

// dispatch is the process's one delivery goroutine. Serial dispatch
// plays the part of a full signal mask around the handler: no two
// notes are ever handled at once, and arrivals during a handler wait
// in their row's channel until it finishes.
func dispatch() {
	for {
		mu.Lock()
		sc := []reflect.SelectCase{{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctl)}}
		sigs := []unix.Signal{0}
		for _, e := range sigTab {
			if r := rows[e.Sig]; r != nil && r.ch != nil {
				sc = append(sc, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(r.ch)})
				sigs = append(sigs, e.Sig)
			}
		}
		var flush sigset.Set
		pending.ForEach(func(sig unix.Signal) {
			if r := rows[sig]; r != nil && r.enabled {
				flush.Add(sig)
				pending.Remove(sig)
			}
		})
		mu.Unlock()

		if !flush.Empty() {
			flush.ForEach(deliver)
			continue
		}

		index, _, ok := reflect.Select(sc)
		if index == 0 {
			// Configuration changed; rebuild the select set.
			continue
		}
		if !ok {
			panic("note: delivery channel closed")
		}
		deliver(sigs[index])
	}
}

// deliver hands one signal to the trampoline, or holds it while its
// row is disabled.
func deliver(sig unix.Signal) {
	mu.Lock()
	r := rows[sig]
	if r == nil {
		mu.Unlock()
		return
	}
	if !r.enabled {
		// Held exactly like a blocked signal; Enable releases it.
		pending.Add(sig)
		mu.Unlock()
		return
	}
	notified := r.notified
	mu.Unlock()
	if !notified {
		// Silent path: the delivery is accepted and dropped.
		return
	}
	trampoline(sig)
}

// trampoline runs the handler inside a jump-protected frame and honors
// the disposition Noted carries back.
func trampoline(sig unix.Signal) {
	j := JumpBuffer()
	j.arm()
	defer func() {
		switch v := recover().(type) {
		case nil:
		case *Jmp:
			if v != j {
				// Someone else's jump; keep unwinding.
				panic(v)
			}
			j.disarm()
			if v.kind == Continue {
				return
			}
			dieFromSignal(sig)
		default:
			panic(v)
		}
	}()
	if f := handler.Load(); f != nil && *f != nil {
		(*f)(nil, sigstr.Name(sig))
	}
	// No handler, or it returned without calling Noted: the note falls
	// to the platform default.
	j.disarm()
	dieFromSignal(sig)
}

// dieFromSignal hands sig back to the platform: restore the default
// disposition, deliver the signal to ourselves, and if the default
// action leaves the process alive, exit nonzero anyway.
func dieFromSignal(sig unix.Signal) {
	signal.Reset(sig)
	raise(sig)
	os.Exit(1)
}
