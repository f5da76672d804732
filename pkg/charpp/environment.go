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

package charpp

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Environment maps variable names to values. Iteration order is insignificant.
type Environment map[string]string

// ValidateName returns an error if name cannot be used as an environment variable name.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("environment variable name is empty")
	case strings.ContainsRune(name, '='):
		return errors.Errorf("environment variable name %q contains '='", name)
	case strings.ContainsRune(name, 0):
		return errors.Errorf("environment variable name %q contains a NUL byte", name)
	}
	return nil
}

// Entries returns "NAME=VALUE" strings sorted by name.
func (e Environment) Entries() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]string, 0, len(names))
	for _, name := range names {
		entries = append(entries, name+"="+e[name])
	}
	return entries
}

// ToCharpp marshals the mapping into "NAME=VALUE" entries, sorted by name.
func (e Environment) ToCharpp() (*Array, error) {
	for name := range e {
		if err := ValidateName(name); err != nil {
			return nil, err
		}
	}
	return newArray(e.Entries()), nil
}

// Get returns the value of name. found is false when name is absent, which differs from a defined but empty value.
func (e Environment) Get(name string) (value string, found bool) {
	value, found = e[name]
	return
}

// Clone returns a copy of the mapping.
func (e Environment) Clone() Environment {
	out := make(Environment, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// SplitEntry splits a "NAME=VALUE" entry. An entry without '=' is a name with an empty value, reported with
// found == false.
func SplitEntry(entry string) (name, value string, found bool) {
	i := strings.IndexByte(entry, '=')
	if i < 0 {
		return entry, "", false
	}
	return entry[:i], entry[i+1:], true
}

// EnvironmentFromStrings parses "NAME=VALUE" entries such as those returned by os.Environ. Later duplicates win.
func EnvironmentFromStrings(entries []string) Environment {
	out := make(Environment, len(entries))
	for _, entry := range entries {
		name, value, _ := SplitEntry(entry)
		out[name] = value
	}
	return out
}

// EnvironmentFromCharpp parses a nil-terminated "NAME=VALUE" pointer array.
func EnvironmentFromCharpp(ptrs []*byte) Environment {
	return EnvironmentFromStrings(FromCharpp(ptrs))
}

// EnvironmentFromArray parses an Array. When take is true the array is released afterwards.
func EnvironmentFromArray(a *Array, take bool) Environment {
	out := EnvironmentFromStrings(a.Strings())
	if take {
		a.Release()
	}
	return out
}
