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
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/google/subcommands"
	"golang.org/x/sys/unix"

	"gvisor.dev/p9note/pkg/note"
	"gvisor.dev/p9note/pkg/sigstr"
)

// noteRow is one line of "notes" output.
type noteRow struct {
	Note     string `json:"note"`
	Signal   string `json:"signal"`
	Number   int    `json:"number"`
	Restart  bool   `json:"restart"`
	Enabled  bool   `json:"enabled"`
	Notified bool   `json:"notified"`
}

type outputFunc func(w io.Writer, rows []noteRow) error

var outputMap = map[string]outputFunc{
	"table": outputTable,
	"csv":   outputCSV,
	"json":  outputJSON,
}

// Notes implements subcommands.Command for the "notes" command.
type Notes struct {
	format string
}

// Name implements subcommands.Command.Name.
func (*Notes) Name() string {
	return "notes"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Notes) Synopsis() string {
	return "prints the note table"
}

// Usage implements subcommands.Command.Usage.
func (*Notes) Usage() string {
	return `notes [flags] - prints the note table with per-note defaults.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (n *Notes) SetFlags(f *flag.FlagSet) {
	f.StringVar(&n.format, "format", "table", "Output format (table, csv, json).")
}

// Execute implements subcommands.Command.Execute.
func (n *Notes) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	out, ok := outputMap[n.format]
	if !ok {
		Fatalf("unsupported output format %q", n.format)
	}
	var rows []noteRow
	for _, e := range note.Table() {
		rows = append(rows, noteRow{
			Note:     sigstr.Name(e.Sig),
			Signal:   unix.SignalName(e.Sig),
			Number:   int(e.Sig),
			Restart:  e.Restart,
			Enabled:  e.Enabled,
			Notified: e.Notified,
		})
	}
	if err := out(os.Stdout, rows); err != nil {
		Fatalf("writing note table: %v", err)
	}
	return subcommands.ExitSuccess
}

func outputTable(out io.Writer, rows []noteRow) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "NOTE\tSIGNAL\tNUM\tRESTART\tENABLED\tNOTIFIED\n")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%t\t%t\n",
			r.Note, r.Signal, r.Number, r.Restart, r.Enabled, r.Notified)
	}
	return w.Flush()
}

func outputCSV(out io.Writer, rows []noteRow) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"note", "signal", "number", "restart", "enabled", "notified"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Note,
			r.Signal,
			strconv.Itoa(r.Number),
			strconv.FormatBool(r.Restart),
			strconv.FormatBool(r.Enabled),
			strconv.FormatBool(r.Notified),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func outputJSON(out io.Writer, rows []noteRow) error {
	e := json.NewEncoder(out)
	e.SetIndent("", "  ")
	return e.Encode(rows)
}
