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

package note_test

import (
	"errors"
	"os"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"gvisor.dev/p9note/pkg/note"
	"gvisor.dev/p9note/pkg/sigstr"
)

func TestContinueResumesFlow(t *testing.T) {
	ch := listen(t)

	// A worker that must keep making progress across the delivery.
	var counter atomic.Int64
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				counter.Add(1)
			}
		}
	}()
	defer func() {
		close(stop)
		<-done
	}()

	pre := counter.Load()
	raiseSelf(t, unix.SIGALRM)
	waitNote(t, ch, "alarm")

	deadline := time.After(5 * time.Second)
	for counter.Load() <= pre+1000 {
		select {
		case <-deadline:
			t.Fatalf("worker stalled after the handler resumed")
		default:
			runtime.Gosched()
		}
	}
}

func TestDisableHoldsDelivery(t *testing.T) {
	ch := listen(t)

	note.Disable("sys: usr1")
	raiseSelf(t, unix.SIGUSR1)
	expectQuiet(t, ch, "sys: usr1", 300*time.Millisecond)

	note.Enable("sys: usr1")
	waitNote(t, ch, "sys: usr1")

	// The held instance was consumed; nothing further arrives.
	expectQuiet(t, ch, "sys: usr1", 300*time.Millisecond)
}

func TestDetachedNoteIsDropped(t *testing.T) {
	ch := listen(t)

	note.Enable("sys: write on closed pipe")
	note.NotifyOff("sys: write on closed pipe")

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("closing read side: %v", err)
	}
	defer w.Close()

	// The write still fails with EPIPE; the note itself goes nowhere.
	if _, err := w.Write([]byte("x")); !errors.Is(err, unix.EPIPE) {
		t.Errorf("write to a broken pipe got %v, wanted EPIPE", err)
	}
	expectQuiet(t, ch, "sys: write on closed pipe", 300*time.Millisecond)
}

func TestPreInstalledDispositionPreserved(t *testing.T) {
	// TestMain marked SIGVTALRM ignored before any registration, so
	// its row was skipped and the signal stays ignored.
	ch := listen(t)
	raiseSelf(t, unix.SIGVTALRM)
	expectQuiet(t, ch, "sys: virtual time alarm", 300*time.Millisecond)
}

func TestEarlyClaimSurvivesRegistration(t *testing.T) {
	// TestMain attached "sys: child" before registering the handler.
	// The claim enabled a row whose default is held, and registration
	// must not have reset it.
	ch := listen(t)
	raiseSelf(t, unix.SIGCHLD)
	waitNote(t, ch, "sys: child")
}

func TestAttachedNameRoundTrip(t *testing.T) {
	ch := listen(t)
	for _, sig := range []unix.Signal{unix.SIGUSR2, unix.SIGWINCH, unix.SIGCHLD} {
		name := sigstr.Name(sig)
		note.NotifyOn(name)
		raiseSelf(t, sig)
		waitNote(t, ch, name)
	}
}

func TestJumpProviderRefetchedPerDelivery(t *testing.T) {
	ch := listen(t)

	// Let any in-flight delivery finish before swapping the provider.
	time.Sleep(100 * time.Millisecond)

	old := note.JumpBuffer
	defer func() { note.JumpBuffer = old }()
	var calls atomic.Int32
	note.JumpBuffer = func() *note.Jmp {
		calls.Add(1)
		return old()
	}

	raiseSelf(t, unix.SIGALRM)
	waitNote(t, ch, "alarm")
	raiseSelf(t, unix.SIGALRM)
	waitNote(t, ch, "alarm")

	// Each delivery fetches once to arm and once inside Noted. Waiting
	// for the last fetch also keeps the restore from racing with it.
	deadline := time.After(5 * time.Second)
	for calls.Load() < 4 {
		select {
		case <-deadline:
			t.Fatalf("provider fetched %d times across two deliveries, wanted at least 4", calls.Load())
		default:
			runtime.Gosched()
		}
	}
}
