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
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"

	"gvisor.dev/p9note/pkg/note"
)

func TestWatchConfigDecode(t *testing.T) {
	const doc = `
notes = ["interrupt", "sys: usr1"]

[dispositions]
"sys: usr2" = "default"
"interrupt" = "continue"
`
	var cfg watchConfig
	if _, err := toml.Decode(doc, &cfg); err != nil {
		t.Fatalf("decoding config: %v", err)
	}
	want := watchConfig{
		Notes: []string{"interrupt", "sys: usr1"},
		Dispositions: map[string]string{
			"sys: usr2": "default",
			"interrupt": "continue",
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPolicyMergesAndDedups(t *testing.T) {
	cfg := watchConfig{Notes: []string{"interrupt"}}
	attach, policy, err := buildPolicy(cfg, []string{"sys: usr1", "interrupt"})
	if err != nil {
		t.Fatalf("buildPolicy: %v", err)
	}
	if diff := cmp.Diff([]string{"interrupt", "sys: usr1"}, attach); diff != "" {
		t.Errorf("attach list mismatch (-want +got):\n%s", diff)
	}
	if got, want := policy["kill"], note.Default; got != want {
		t.Errorf("policy for kill got %v, wanted %v", got, want)
	}
}

func TestBuildPolicyAttachesAllByDefault(t *testing.T) {
	attach, _, err := buildPolicy(watchConfig{}, nil)
	if err != nil {
		t.Fatalf("buildPolicy: %v", err)
	}
	if got, want := len(attach), len(note.Table()); got != want {
		t.Errorf("attached %d notes, wanted %d", got, want)
	}
}

func TestBuildPolicyKillOverride(t *testing.T) {
	cfg := watchConfig{Dispositions: map[string]string{"kill": "continue"}}
	_, policy, err := buildPolicy(cfg, nil)
	if err != nil {
		t.Fatalf("buildPolicy: %v", err)
	}
	if got, want := policy["kill"], note.Continue; got != want {
		t.Errorf("policy for kill got %v, wanted %v", got, want)
	}
}

func TestBuildPolicyRejectsUnknownNote(t *testing.T) {
	if _, _, err := buildPolicy(watchConfig{}, []string{"notanote"}); err == nil {
		t.Errorf("unknown attach note accepted, wanted error")
	}
	// Names with no table row cannot be attached either.
	if _, _, err := buildPolicy(watchConfig{}, []string{"sys: abort"}); err == nil {
		t.Errorf("unattachable note accepted, wanted error")
	}
}

func TestBuildPolicyRejectsBadDisposition(t *testing.T) {
	cfg := watchConfig{Dispositions: map[string]string{"interrupt": "explode"}}
	if _, _, err := buildPolicy(cfg, nil); err == nil {
		t.Errorf("bad disposition accepted, wanted error")
	}
	cfg = watchConfig{Dispositions: map[string]string{"notanote": "continue"}}
	if _, _, err := buildPolicy(cfg, nil); err == nil {
		t.Errorf("disposition for unknown note accepted, wanted error")
	}
}
