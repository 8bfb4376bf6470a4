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

// Package sigstr translates between host signal numbers and the textual
// names Plan 9 gives to notes.
//
// The well-known names ("hangup", "interrupt", "quit", "alarm") match
// Plan 9 exactly. SIGTERM maps to "kill" because that is the note a
// Plan 9 kill delivers; the non-deliverable SIGKILL renders as
// "sys: kill" instead. Signals with no name of their own render as
// "sys: signal N", and that spelling has no reverse mapping.
package sigstr

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// signalNote names the signals common to all supported platforms.
// Platform-specific signals are named in the per-OS osNote tables.
var signalNote = map[unix.Signal]string{
	unix.SIGHUP:    "hangup",
	unix.SIGINT:    "interrupt",
	unix.SIGQUIT:   "quit",
	unix.SIGILL:    "sys: trap: illegal instruction",
	unix.SIGTRAP:   "sys: trap: breakpoint",
	unix.SIGABRT:   "sys: abort",
	unix.SIGFPE:    "sys: fp: trap",
	unix.SIGKILL:   "sys: kill",
	unix.SIGBUS:    "sys: bus error",
	unix.SIGSEGV:   "sys: segmentation violation",
	unix.SIGSYS:    "sys: bad system call",
	unix.SIGPIPE:   "sys: write on closed pipe",
	unix.SIGALRM:   "alarm",
	unix.SIGTERM:   "kill",
	unix.SIGURG:    "sys: urgent condition on socket",
	unix.SIGSTOP:   "sys: stop",
	unix.SIGTSTP:   "sys: tstp",
	unix.SIGCONT:   "sys: cont",
	unix.SIGCHLD:   "sys: child",
	unix.SIGTTIN:   "sys: ttin",
	unix.SIGTTOU:   "sys: ttou",
	unix.SIGIO:     "sys: i/o possible on fd",
	unix.SIGXCPU:   "sys: cpu time limit exceeded",
	unix.SIGXFSZ:   "sys: file size limit exceeded",
	unix.SIGVTALRM: "sys: virtual time alarm",
	unix.SIGPROF:   "sys: profiling timer expired",
	unix.SIGWINCH:  "sys: window size change",
	unix.SIGUSR1:   "sys: usr1",
	unix.SIGUSR2:   "sys: usr2",
}

// noteSignal is the reverse of signalNote and osNote, built once at
// program start.
var noteSignal = make(map[string]unix.Signal)

func init() {
	for sig, note := range signalNote {
		noteSignal[note] = sig
	}
	for sig, note := range osNote {
		noteSignal[note] = sig
	}
}

// Name returns the note name for sig. Unnamed signals render as
// "sys: signal N"; Name never fails.
func Name(sig unix.Signal) string {
	if note, ok := signalNote[sig]; ok {
		return note
	}
	if note, ok := osNote[sig]; ok {
		return note
	}
	return fmt.Sprintf("sys: signal %d", int(sig))
}

// Signal returns the signal named by note, or 0 when the name is
// unknown. Signal 0 is reserved by the platform as "no signal", so
// callers treat a zero result as a no-op.
func Signal(note string) unix.Signal {
	return noteSignal[note]
}
