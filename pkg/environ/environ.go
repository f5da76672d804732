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

// Package environ is a read-through view of the calling process's own environment.
//
// Entries are parsed only when an iterator is dereferenced. Any mutation (Insert, Erase, os.Setenv...) invalidates
// existing iterators: interleaving iteration with mutation is undefined and must be avoided by the caller.
package environ

import (
	"iter"
	"os"

	"github.com/tetratelabs/procctl/pkg/charpp"
)

// table is swapped in tests.
var table = os.Environ

// Iterator points into the environment table. The zero value is not usable: obtain one with Begin or End.
type Iterator struct {
	entries []string
	i       int
}

// Begin returns an iterator to the first entry.
func Begin() Iterator {
	return Iterator{entries: table()}
}

// End returns an iterator one past the last entry.
func End() Iterator {
	entries := table()
	return Iterator{entries: entries, i: len(entries)}
}

// Valid returns false at End or before Begin.
func (it Iterator) Valid() bool {
	return it.i >= 0 && it.i < len(it.entries)
}

// Next returns an iterator to the following entry.
func (it Iterator) Next() Iterator {
	it.i++
	return it
}

// Prev returns an iterator to the preceding entry.
func (it Iterator) Prev() Iterator {
	it.i--
	return it
}

// Equal returns true when both iterators point to the same position.
func (it Iterator) Equal(o Iterator) bool {
	return it.i == o.i
}

// Entry returns the raw "NAME=VALUE" entry, or "" if the iterator is not Valid.
func (it Iterator) Entry() string {
	if !it.Valid() {
		return ""
	}
	return it.entries[it.i]
}

// Name returns the name part of the entry. found is false when the entry has no '='.
func (it Iterator) Name() (name string, found bool) {
	name, _, found = charpp.SplitEntry(it.Entry())
	return
}

// Value returns the value part of the entry. found is false when the entry has no '='.
func (it Iterator) Value() (value string, found bool) {
	_, value, found = charpp.SplitEntry(it.Entry())
	return
}

// All yields every name and value in table order.
func All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for it, end := Begin(), End(); !it.Equal(end); it = it.Next() {
			name, value, _ := charpp.SplitEntry(it.Entry())
			if !yield(name, value) {
				return
			}
		}
	}
}

// Get returns the value of name. found distinguishes a defined but empty variable from an absent one.
func Get(name string) (value string, found bool) {
	return os.LookupEnv(name)
}

// Insert sets name to value. When overwrite is false an existing variable is left untouched.
func Insert(name, value string, overwrite bool) error {
	if err := charpp.ValidateName(name); err != nil {
		return err
	}
	if !overwrite {
		if _, ok := os.LookupEnv(name); ok {
			return nil
		}
	}
	return os.Setenv(name, value)
}

// Erase removes name from the environment. Removing an absent variable is not an error.
func Erase(name string) error {
	if err := charpp.ValidateName(name); err != nil {
		return err
	}
	return os.Unsetenv(name)
}

// Count returns 1 if name is defined, otherwise 0.
func Count(name string) int {
	if _, ok := os.LookupEnv(name); ok {
		return 1
	}
	return 0
}

// Size returns the number of entries.
func Size() int {
	return len(table())
}

// Empty returns true when there are no entries.
func Empty() bool {
	return Size() == 0
}

// Snapshot copies the environment into a mapping, for example to modify it and pass it to a child process.
func Snapshot() charpp.Environment {
	return charpp.EnvironmentFromStrings(table())
}
