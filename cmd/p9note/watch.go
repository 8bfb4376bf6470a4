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
	"sync/atomic"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"gvisor.dev/p9note/pkg/note"
	"gvisor.dev/p9note/pkg/sigstr"
)

// watchConfig is the optional TOML policy for the "watch" command.
//
//	notes = ["interrupt", "sys: usr1"]
//
//	[dispositions]
//	"sys: usr2" = "default"
type watchConfig struct {
	Notes        []string          `toml:"notes"`
	Dispositions map[string]string `toml:"dispositions"`
}

// Watch implements subcommands.Command for the "watch" command.
type Watch struct {
	configFile string
	limit      float64
	report     time.Duration
}

// Name implements subcommands.Command.Name.
func (*Watch) Name() string {
	return "watch"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Watch) Synopsis() string {
	return "logs notes as they arrive"
}

// Usage implements subcommands.Command.Usage.
func (*Watch) Usage() string {
	return `watch [flags] [note...] - attaches the named notes (all of them if none are given) and logs each arrival.

Notes whose configured disposition is "default" end the watcher the way
the platform would. "kill" keeps that deadly default unless the
configuration overrides it; everything else is logged and resumed, so
an interrupt is reported rather than obeyed.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (w *Watch) SetFlags(f *flag.FlagSet) {
	f.StringVar(&w.configFile, "config", "", "TOML file naming notes to attach and their dispositions.")
	f.Float64Var(&w.limit, "limit", 10, "maximum logged notes per second.")
	f.DurationVar(&w.report, "report", time.Minute, "interval between arrival count reports.")
}

// Execute implements subcommands.Command.Execute.
func (w *Watch) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	var cfg watchConfig
	if w.configFile != "" {
		if _, err := toml.DecodeFile(w.configFile, &cfg); err != nil {
			Fatalf("reading config %q: %v", w.configFile, err)
		}
	}
	attach, policy, err := buildPolicy(cfg, f.Args())
	if err != nil {
		Fatalf("%v", err)
	}

	burst := int(w.limit)
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(w.limit), burst)

	var seen atomic.Int64
	note.Notify(func(_ any, msg string) {
		seen.Add(1)
		if limiter.Allow() {
			logrus.WithField("note", msg).Info("note")
		} else {
			logrus.WithField("note", msg).Debug("note (rate limited)")
		}
		if d, ok := policy[msg]; ok && d == note.Default {
			logrus.WithField("note", msg).Info("surrendering to the default")
			note.Noted(note.Default)
		}
		note.Noted(note.Continue)
	})
	for _, name := range attach {
		note.NotifyOn(name)
	}
	logrus.WithField("notes", len(attach)).Info("watching")

	go func() {
		for range time.Tick(w.report) {
			logrus.WithField("seen", seen.Load()).Debug("arrival count")
		}
	}()
	select {}
}

// buildPolicy merges the config file and the command line into the
// list of notes to attach and the disposition applied after each one
// is logged. "kill" keeps its deadly default unless the config
// overrides it, so the watcher stays killable.
func buildPolicy(cfg watchConfig, args []string) ([]string, map[string]note.Disposition, error) {
	valid := make(map[string]bool)
	for _, e := range note.Table() {
		valid[sigstr.Name(e.Sig)] = true
	}

	var attach []string
	seen := make(map[string]bool)
	for _, name := range append(append([]string(nil), cfg.Notes...), args...) {
		if !valid[name] {
			return nil, nil, fmt.Errorf("note %q cannot be attached", name)
		}
		if !seen[name] {
			seen[name] = true
			attach = append(attach, name)
		}
	}
	if len(attach) == 0 {
		for _, e := range note.Table() {
			attach = append(attach, sigstr.Name(e.Sig))
		}
	}

	policy := map[string]note.Disposition{"kill": note.Default}
	for name, d := range cfg.Dispositions {
		if !valid[name] {
			return nil, nil, fmt.Errorf("disposition for unknown note %q", name)
		}
		switch d {
		case "continue":
			policy[name] = note.Continue
		case "default":
			policy[name] = note.Default
		default:
			return nil, nil, fmt.Errorf("disposition for %q must be continue or default, not %q", name, d)
		}
	}
	return attach, policy, nil
}
