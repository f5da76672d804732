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
	"strings"

	"github.com/pkg/errors"
)

// Redirect selects which standard streams of a child are connected to pipes owned by the parent.
type Redirect uint8

const (
	// Stdin gives the parent a writable Process.Stdin.
	Stdin Redirect = 1 << iota
	// Stdout gives the parent a readable Process.Stdout.
	Stdout
	// Stderr gives the parent a readable Process.Stderr.
	Stderr

	// None leaves all three streams inherited.
	None Redirect = 0
	// All redirects every stream.
	All = Stdin | Stdout | Stderr
)

var redirectNames = []struct {
	r    Redirect
	name string
}{
	{Stdin, "stdin"},
	{Stdout, "stdout"},
	{Stderr, "stderr"},
}

// Has returns true when every stream in o is redirected.
func (r Redirect) Has(o Redirect) bool {
	return r&o == o
}

func (r Redirect) String() string {
	if r == None {
		return "none"
	}
	var names []string
	for _, n := range redirectNames {
		if r.Has(n.r) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// ParseRedirect combines stream names such as "stdout" or "all". An empty list is None.
func ParseRedirect(names ...string) (Redirect, error) {
	r := None
	for _, name := range names {
		switch name := strings.ToLower(strings.TrimSpace(name)); name {
		case "all":
			r |= All
		case "none", "":
		default:
			found := false
			for _, n := range redirectNames {
				if n.name == name {
					r |= n.r
					found = true
				}
			}
			if !found {
				return None, errors.Errorf("unknown stream %q: expected one of stdin, stdout, stderr, all or none", name)
			}
		}
	}
	return r, nil
}
