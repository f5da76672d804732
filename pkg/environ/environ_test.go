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

package environ

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/procctl/pkg/charpp"
)

func withTable(t *testing.T, entries ...string) {
	previous := table
	table = func() []string { return entries }
	t.Cleanup(func() { table = previous })
}

func TestIterator_Bidirectional(t *testing.T) {
	withTable(t, "A=1", "B", "C=x=y")

	begin, end := Begin(), End()
	require.False(t, end.Valid())

	var names []string
	for it := begin; !it.Equal(end); it = it.Next() {
		name, _ := it.Name()
		names = append(names, name)
	}
	require.Equal(t, []string{"A", "B", "C"}, names)

	var reversed []string
	for it := end.Prev(); it.Valid(); it = it.Prev() {
		value, _ := it.Value()
		reversed = append(reversed, value)
	}
	require.Equal(t, []string{"x=y", "", "1"}, reversed)
	require.False(t, begin.Prev().Valid())
}

func TestIterator_ParseOnDereference(t *testing.T) {
	withTable(t, "NOEQUALS", "EMPTY=")

	it := Begin()
	require.Equal(t, "NOEQUALS", it.Entry())
	name, found := it.Name()
	require.Equal(t, "NOEQUALS", name)
	require.False(t, found)

	it = it.Next()
	value, found := it.Value()
	require.Empty(t, value)
	require.True(t, found)

	require.Empty(t, it.Next().Entry())
}

func TestAll(t *testing.T) {
	withTable(t, "A=1", "B=2", "C=3")

	seen := map[string]string{}
	for name, value := range All() {
		seen[name] = value
		if name == "B" {
			break
		}
	}
	require.Equal(t, map[string]string{"A": "1", "B": "2"}, seen)
}

func TestSizeEmpty(t *testing.T) {
	withTable(t)
	require.True(t, Empty())
	require.Equal(t, 0, Size())
	require.True(t, Begin().Equal(End()))
}

func TestInsertGetEraseCount(t *testing.T) {
	const name = "PROCCTL_ENVIRON_TEST"
	t.Setenv(name, "")

	value, found := Get(name)
	require.True(t, found, "defined but empty is still found")
	require.Empty(t, value)
	require.Equal(t, 1, Count(name))

	require.NoError(t, Insert(name, "first", true))
	value, _ = Get(name)
	require.Equal(t, "first", value)

	require.NoError(t, Insert(name, "second", false))
	value, _ = Get(name)
	require.Equal(t, "first", value, "overwrite=false must keep the existing value")

	require.NoError(t, Erase(name))
	_, found = Get(name)
	require.False(t, found)
	require.Equal(t, 0, Count(name))

	require.NoError(t, Insert(name, "third", false))
	value, _ = Get(name)
	require.Equal(t, "third", value)

	require.NoError(t, Erase(name))
	require.NoError(t, Erase(name), "erasing an absent variable is not an error")
}

func TestInsert_InvalidName(t *testing.T) {
	require.EqualError(t, Insert("A=B", "x", true), `environment variable name "A=B" contains '='`)
	require.EqualError(t, Erase(""), `environment variable name is empty`)
}

func TestSnapshot(t *testing.T) {
	t.Setenv("PROCCTL_SNAPSHOT_TEST", "value")

	env := Snapshot()
	require.Equal(t, "value", env["PROCCTL_SNAPSHOT_TEST"])
	require.Equal(t, charpp.EnvironmentFromStrings(os.Environ()), env)
	require.Equal(t, len(os.Environ()), Size())
}
