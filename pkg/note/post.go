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
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"gvisor.dev/p9note/pkg/sigstr"
)

// ErrUnknownNote is returned by Post and PostGroup for names outside
// the note vocabulary.
var ErrUnknownNote = errors.New("unknown note")

// Post sends the named note to process pid. The note travels as its
// signal; the receiver sees the name only if it runs a translation
// layer like this one. Unlike the configuration calls, posting an
// unknown note is an error the caller can act on.
func Post(pid int, msg string) error {
	sig := sigstr.Signal(msg)
	if sig == 0 {
		return fmt.Errorf("%w %q", ErrUnknownNote, msg)
	}
	if err := unix.Kill(pid, sig); err != nil {
		return fmt.Errorf("posting %q to %d: %w", msg, pid, err)
	}
	return nil
}

// PostGroup sends the named note to every process in the group pgid.
func PostGroup(pgid int, msg string) error {
	sig := sigstr.Signal(msg)
	if sig == 0 {
		return fmt.Errorf("%w %q", ErrUnknownNote, msg)
	}
	if err := unix.Kill(-pgid, sig); err != nil {
		return fmt.Errorf("posting %q to group %d: %w", msg, pgid, err)
	}
	return nil
}
