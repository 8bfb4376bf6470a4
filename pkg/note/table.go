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

import "golang.org/x/sys/unix"

// Entry describes the initial settings of one handled signal. Live
// state belongs to the dispatcher; entries never change after program
// start.
type Entry struct {
	// Sig is the host signal number.
	Sig unix.Signal

	// Restart records that slow system calls interrupted by this
	// signal should be restarted once its handler returns. The Go
	// runtime installs every subscribed handler with SA_RESTART, so
	// the field is informational here.
	Restart bool

	// Enabled is the initial mask state: true means deliverable.
	Enabled bool

	// Notified is the initial dispatch state: true means delivery
	// invokes the registered handler, false means delivery is
	// accepted and dropped.
	Notified bool
}

// sigTab lists the handled signals in declared order, which is the
// order initialization walks them. Job-control signals start out
// masked, the broken pipe starts out masked and non-restarting, and
// everything else starts out deliverable.
//
// Columns: signal, restart, enabled, notified.
var sigTab = append([]Entry{
	{unix.SIGHUP, false, true, true},
	{unix.SIGINT, false, true, true},
	{unix.SIGQUIT, false, true, true},
	{unix.SIGILL, false, true, true},
	{unix.SIGTRAP, false, true, true},
	{unix.SIGFPE, false, true, true},
	{unix.SIGBUS, false, true, true},
	{unix.SIGCHLD, true, false, true},
	{unix.SIGSYS, false, true, true},
	{unix.SIGPIPE, false, false, true},
	{unix.SIGALRM, false, true, true},
	{unix.SIGTERM, false, true, true},
	{unix.SIGTSTP, true, false, true},
	{unix.SIGTTIN, true, false, true},
	{unix.SIGTTOU, true, false, true},
	{unix.SIGXCPU, false, true, true},
	{unix.SIGXFSZ, false, true, true},
	{unix.SIGVTALRM, false, true, true},
	{unix.SIGUSR1, false, true, true},
	{unix.SIGUSR2, false, true, true},
	{unix.SIGWINCH, true, false, true},
}, osTab...)

// Table returns a copy of the note table in declared order. The copy
// holds the initial settings; current state lives with the dispatcher
// and is not reported here.
func Table() []Entry {
	return append([]Entry(nil), sigTab...)
}

// lookup returns the table entry for sig, or nil when sig has no row.
func lookup(sig unix.Signal) *Entry {
	for i := range sigTab {
		if sigTab[i].Sig == sig {
			return &sigTab[i]
		}
	}
	return nil
}
