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
	"os"
	"os/exec"
	"syscall"
	"testing"
)

// deathStatus reruns the test binary with deathEnv set to scenario and
// returns how the child exited. The scenario is expected to die by a
// signal before reaching any test.
func deathStatus(t *testing.T, scenario string) syscall.WaitStatus {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=TestEmptyRun")
	cmd.Env = append(os.Environ(), deathEnv+"="+scenario)
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("death scenario %q exited cleanly, wanted death by signal; output:\n%s", scenario, out)
	}
	ee, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("death scenario %q: %v", scenario, err)
	}
	ws, ok := ee.Sys().(syscall.WaitStatus)
	if !ok {
		t.Fatalf("death scenario %q: no wait status in %v", scenario, err)
	}
	return ws
}

func TestHandlerReturnFallsThrough(t *testing.T) {
	ws := deathStatus(t, "handler-returns")
	if !ws.Signaled() || ws.Signal() != syscall.SIGINT {
		t.Errorf("scenario exited %#x, wanted death by SIGINT", uint32(ws))
	}
}

func TestNotedDefaultDies(t *testing.T) {
	ws := deathStatus(t, "noted-default")
	if !ws.Signaled() || ws.Signal() != syscall.SIGTERM {
		t.Errorf("scenario exited %#x, wanted death by SIGTERM", uint32(ws))
	}
}

func TestDispatchWithoutHandlerDies(t *testing.T) {
	ws := deathStatus(t, "no-handler")
	if !ws.Signaled() || ws.Signal() != syscall.SIGHUP {
		t.Errorf("scenario exited %#x, wanted death by SIGHUP", uint32(ws))
	}
}

func TestEarlyDisableOverwrittenByRegistration(t *testing.T) {
	ws := deathStatus(t, "early-disable")
	if !ws.Exited() || ws.ExitStatus() != 7 {
		t.Errorf("scenario exited %#x, wanted exit status 7", uint32(ws))
	}
}
