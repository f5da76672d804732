// Copyright 2021 Tetrate
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

package process

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// State is where a Process is in its lifecycle.
type State int

const (
	// StateInactive is a Process that was never spawned.
	StateInactive State = iota
	// StateActive is a spawned Process whose exit was not observed yet.
	StateActive
	// StateExited is a Process whose exit was observed. This state is final.
	StateExited
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActive:
		return "active"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

type exitKind int

const (
	exitNone exitKind = iota
	exitNormal
	exitSignal
)

// ExitCode classifies how a child ended: either it exited with a code or a signal terminated it. The zero value
// means neither is known, which is the case while the child is active, or when it was reaped by someone else.
type ExitCode struct {
	kind exitKind
	code int
	sig  syscall.Signal
}

// ExitedWith returns the classification of a normal exit.
func ExitedWith(code int) ExitCode {
	return ExitCode{kind: exitNormal, code: code}
}

// SignaledBy returns the classification of a termination by signal.
func SignaledBy(sig syscall.Signal) ExitCode {
	return ExitCode{kind: exitSignal, sig: sig}
}

// FromWaitStatus classifies a status returned by wait. ok is false for stop and continue reports.
func FromWaitStatus(ws unix.WaitStatus) (c ExitCode, ok bool) {
	switch {
	case ws.Exited():
		return ExitedWith(ws.ExitStatus()), true
	case ws.Signaled():
		return SignaledBy(ws.Signal()), true
	}
	return ExitCode{}, false
}

// Valid returns true when the classification is known.
func (c ExitCode) Valid() bool {
	return c.kind != exitNone
}

// Exited returns true for a normal exit. See Code.
func (c ExitCode) Exited() bool {
	return c.kind == exitNormal
}

// Code returns the exit code of a normal exit, or -1 otherwise.
func (c ExitCode) Code() int {
	if c.kind != exitNormal {
		return -1
	}
	return c.code
}

// Signaled returns true when a signal terminated the child. See Signal.
func (c ExitCode) Signaled() bool {
	return c.kind == exitSignal
}

// Signal returns the terminating signal, or 0 when the child wasn't terminated by one.
func (c ExitCode) Signal() syscall.Signal {
	if c.kind != exitSignal {
		return 0
	}
	return c.sig
}

// Success returns true for a normal exit with code zero.
func (c ExitCode) Success() bool {
	return c.kind == exitNormal && c.code == 0
}

func (c ExitCode) String() string {
	switch c.kind {
	case exitNormal:
		return fmt.Sprintf("exit status %d", c.code)
	case exitSignal:
		return fmt.Sprintf("signal: %v", c.sig)
	default:
		return "unknown"
	}
}
