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
	"errors"
	"flag"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"gvisor.dev/p9note/pkg/note"
	"gvisor.dev/p9note/pkg/sigstr"
)

// Run implements subcommands.Command for the "run" command.
type Run struct {
	relay string
}

// Name implements subcommands.Command.Name.
func (*Run) Name() string {
	return "run"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Run) Synopsis() string {
	return "runs a command in a pty, relaying notes to it"
}

// Usage implements subcommands.Command.Usage.
func (*Run) Usage() string {
	return `run [-relay notes] <command> [args...] - runs the command on its own pty.

The child gets its own session and controlling terminal, so notes
arriving here are forwarded to it as signals. Window size changes
propagate to the pty. The exit status mirrors the child's, using the
shell convention of 128 plus the signal number for signal deaths.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (r *Run) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.relay, "relay", "interrupt,hangup,quit,kill", "comma-separated notes forwarded to the child.")
}

// Execute implements subcommands.Command.Execute.
func (r *Run) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	relayed := make(map[string]bool)
	for _, name := range strings.Split(r.relay, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if sigstr.Signal(name) == 0 {
			Fatalf("unknown note %q in -relay", name)
		}
		relayed[name] = true
	}

	cmd := exec.Command(f.Arg(0), f.Args()[1:]...)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		Fatalf("starting %q: %v", f.Arg(0), err)
	}
	defer ptmx.Close()

	if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
		logrus.WithError(err).Debug("cannot size the pty")
	}

	note.Notify(func(_ any, msg string) {
		switch {
		case msg == "sys: window size change":
			if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
				logrus.WithError(err).Debug("resize failed")
			}
		case relayed[msg]:
			logrus.WithFields(logrus.Fields{"note": msg, "pid": cmd.Process.Pid}).Debug("relaying")
			if err := unix.Kill(cmd.Process.Pid, sigstr.Signal(msg)); err != nil && err != unix.ESRCH {
				logrus.WithError(err).Warnf("cannot relay %q", msg)
			}
		}
		note.Noted(note.Continue)
	})
	note.NotifyOn("sys: window size change")
	for name := range relayed {
		note.NotifyOn(name)
	}

	restore := func() {}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		old, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			Fatalf("entering raw mode: %v", err)
		}
		restore = func() { term.Restore(int(os.Stdin.Fd()), old) }
	}

	var g errgroup.Group
	g.Go(func() error {
		// EIO from the pty just means the child is gone.
		if _, err := io.Copy(os.Stdout, ptmx); err != nil && !errors.Is(err, unix.EIO) {
			return err
		}
		return nil
	})
	go func() {
		// Keystrokes flow to the child until this process exits. A
		// blocked read on stdin cannot be unblocked, so this copy is
		// not part of the group.
		_, _ = io.Copy(ptmx, os.Stdin)
	}()

	werr := cmd.Wait()
	if err := g.Wait(); err != nil {
		logrus.WithError(err).Warn("terminal copy failed")
	}

	// Explicit restore: the exit paths below do not run defers.
	restore()

	if werr == nil {
		return subcommands.ExitSuccess
	}
	var ee *exec.ExitError
	if !errors.As(werr, &ee) {
		Fatalf("waiting for %q: %v", f.Arg(0), werr)
	}
	if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		os.Exit(128 + int(ws.Signal()))
	}
	os.Exit(ee.ExitCode())
	return subcommands.ExitFailure
}
