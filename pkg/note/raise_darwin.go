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

//go:build darwin
// +build darwin

package note

import (
	"time"

	"golang.org/x/sys/unix"
)

// raise posts sig to the process. Delivery lands on a thread of the
// kernel's choosing, so give it a moment before the caller falls back
// to a plain exit.
func raise(sig unix.Signal) {
	unix.Kill(unix.Getpid(), sig)
	time.Sleep(100 * time.Millisecond)
}
