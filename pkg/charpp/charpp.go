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

// Package charpp converts argument lists and environment mappings to and from the NUL-terminated pointer arrays
// that exec-family calls expect (argv and envp).
package charpp

import (
	"strings"

	"golang.org/x/sys/unix"
)

// noCopy makes "go vet" flag accidental copies of an Array. See sync.noCopy.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Array is an owned sequence of byte strings destined for an exec-family call.
//
// The strings are held in Go form and only converted to the OS calling convention by Pointers, right before the
// call that needs them. An Array must not be copied: pass *Array around and Release it once.
type Array struct {
	noCopy noCopy

	strs     []string
	released bool
}

func newArray(strs []string) *Array {
	return &Array{strs: strs}
}

// Len returns the number of strings, not counting the trailing nil added by Pointers.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.strs)
}

// Strings returns a copy of the strings held by the array.
func (a *Array) Strings() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.strs))
	copy(out, a.strs)
	return out
}

// Pointers returns the array in exec-family form: one independent NUL-terminated copy per string followed by a nil
// pointer. This fails with unix.EINVAL if any string contains a NUL byte, or ErrReleased after Release.
func (a *Array) Pointers() ([]*byte, error) {
	if a == nil || a.released {
		return nil, ErrReleased
	}
	ptrs := make([]*byte, len(a.strs)+1)
	for i, s := range a.strs {
		p, err := unix.BytePtrFromString(s)
		if err != nil {
			return nil, &EntryError{Index: i, Err: err}
		}
		ptrs[i] = p
	}
	return ptrs, nil
}

// Validate fails like Pointers would, without converting anything. It suits calls such as syscall.ForkExec that take
// Go strings and convert them themselves.
func (a *Array) Validate() error {
	if a == nil || a.released {
		return ErrReleased
	}
	for i, s := range a.strs {
		if strings.IndexByte(s, 0) >= 0 {
			return &EntryError{Index: i, Err: unix.EINVAL}
		}
	}
	return nil
}

// Release drops the strings. Only the first call has an effect.
func (a *Array) Release() {
	if a == nil || a.released {
		return
	}
	a.strs = nil
	a.released = true
}

// Released returns true once Release was called.
func (a *Array) Released() bool {
	return a == nil || a.released
}

// FromCharpp parses a nil-terminated pointer array. Parsing stops at the first nil pointer or at the end of the
// slice, whichever comes first.
func FromCharpp(ptrs []*byte) Arguments {
	out := Arguments{}
	for _, p := range ptrs {
		if p == nil {
			break
		}
		out = append(out, unix.BytePtrToString(p))
	}
	return out
}
