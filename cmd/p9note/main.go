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

// Binary p9note inspects and exercises the note facility: it dumps the
// note table, posts notes to other processes, watches notes arriving at
// itself, and runs commands under a pty with notes relayed to them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

var (
	debug   = flag.Bool("debug", false, "enable debug logging.")
	logJSON = flag.Bool("log-json", false, "emit logs as JSON.")
)

// Fatalf writes a message to stderr and exits with error code 1.
func Fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(new(Notes), "")
	subcommands.Register(new(Post), "")
	subcommands.Register(new(Watch), "")
	subcommands.Register(new(Run), "")

	flag.Parse()

	logrus.SetOutput(os.Stderr)
	if *logJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	os.Exit(int(subcommands.Execute(context.Background())))
}
