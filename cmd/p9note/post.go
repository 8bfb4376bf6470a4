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

package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"gvisor.dev/p9note/pkg/note"
	"gvisor.dev/p9note/pkg/sigstr"
)

// Post implements subcommands.Command for the "post" command.
type Post struct {
	group bool
}

// Name implements subcommands.Command.Name.
func (*Post) Name() string {
	return "post"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Post) Synopsis() string {
	return "posts a note to a process"
}

// Usage implements subcommands.Command.Usage.
func (*Post) Usage() string {
	return `post [-g] <pid> <note> - posts a note to the process, or with -g to the process group.

The note may be spelled as a note name ("sys: usr1"), a signal number
(10), or a signal name (USR1, SIGUSR1).
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (p *Post) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.group, "g", false, "post to the process group instead of a single process.")
}

// Execute implements subcommands.Command.Execute.
func (p *Post) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	pid, err := strconv.Atoi(f.Arg(0))
	if err != nil {
		Fatalf("invalid pid %q: %v", f.Arg(0), err)
	}
	msg, err := parseNote(f.Arg(1))
	if err != nil {
		Fatalf("%v", err)
	}
	if p.group {
		err = note.PostGroup(pid, msg)
	} else {
		err = note.Post(pid, msg)
	}
	if err != nil {
		Fatalf("%v", err)
	}
	logrus.WithFields(logrus.Fields{"pid": pid, "note": msg}).Debug("posted")
	return subcommands.ExitSuccess
}

// parseNote converts a note name, a signal number, or a signal name
// ("TERM", "SIGTERM") into the note to post.
func parseNote(s string) (string, error) {
	if sigstr.Signal(s) != 0 {
		return s, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		name := sigstr.Name(unix.Signal(n))
		if sigstr.Signal(name) == 0 {
			return "", fmt.Errorf("signal %d carries no note", n)
		}
		return name, nil
	}
	if sig := unix.SignalNum("SIG" + strings.TrimPrefix(strings.ToUpper(s), "SIG")); sig != 0 {
		name := sigstr.Name(sig)
		if sigstr.Signal(name) == 0 {
			return "", fmt.Errorf("signal %q carries no note", s)
		}
		return name, nil
	}
	return "", fmt.Errorf("unknown note %q", s)
}
