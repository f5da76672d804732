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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvironment_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		env  Environment
	}{
		{name: "empty", env: Environment{}},
		{name: "one", env: Environment{"HOME": "/root"}},
		{name: "empty value", env: Environment{"EMPTY": ""}},
		{name: "value with equals", env: Environment{"OPTS": "a=b=c", "PATH": "/bin:/usr/bin"}},
	}

	for _, test := range tests {
		test := test // pin! see https://github.com/kyoh86/scopelint for why

		t.Run(test.name, func(t *testing.T) {
			a, err := test.env.ToCharpp()
			require.NoError(t, err)
			defer a.Release()

			ptrs, err := a.Pointers()
			require.NoError(t, err)
			require.Len(t, ptrs, len(test.env)+1)
			require.Equal(t, test.env, EnvironmentFromCharpp(ptrs))
		})
	}
}

func TestEnvironment_ToCharpp_Sorted(t *testing.T) {
	a, err := Environment{"B": "2", "A": "1", "C": ""}.ToCharpp()
	require.NoError(t, err)
	defer a.Release()

	require.Equal(t, []string{"A=1", "B=2", "C="}, a.Strings())
}

func TestEnvironment_ToCharpp_InvalidName(t *testing.T) {
	tests := []struct {
		name        string
		env         Environment
		expectedErr string
	}{
		{
			name:        "empty",
			env:         Environment{"": "x"},
			expectedErr: `environment variable name is empty`,
		},
		{
			name:        "equals",
			env:         Environment{"A=B": "x"},
			expectedErr: `environment variable name "A=B" contains '='`,
		},
		{
			name:        "NUL",
			env:         Environment{"A\x00": "x"},
			expectedErr: `environment variable name "A\x00" contains a NUL byte`,
		},
	}

	for _, test := range tests {
		test := test // pin! see https://github.com/kyoh86/scopelint for why

		t.Run(test.name, func(t *testing.T) {
			a, err := test.env.ToCharpp()
			require.EqualError(t, err, test.expectedErr)
			require.Nil(t, a)
		})
	}
}

func TestSplitEntry(t *testing.T) {
	tests := []struct {
		entry, name, value string
		found              bool
	}{
		{entry: "A=1", name: "A", value: "1", found: true},
		{entry: "A=", name: "A", value: "", found: true},
		{entry: "A", name: "A", value: "", found: false},
		{entry: "A=b=c", name: "A", value: "b=c", found: true},
		{entry: "=x", name: "", value: "x", found: true},
	}

	for _, test := range tests {
		test := test // pin! see https://github.com/kyoh86/scopelint for why

		t.Run(test.entry, func(t *testing.T) {
			name, value, found := SplitEntry(test.entry)
			require.Equal(t, test.name, name)
			require.Equal(t, test.value, value)
			require.Equal(t, test.found, found)
		})
	}
}

func TestEnvironment_Get(t *testing.T) {
	env := EnvironmentFromStrings([]string{"DEFINED=", "NOEQUALS", "SET=1"})

	value, found := env.Get("DEFINED")
	require.True(t, found)
	require.Empty(t, value)

	value, found = env.Get("NOEQUALS")
	require.True(t, found)
	require.Empty(t, value)

	_, found = env.Get("ABSENT")
	require.False(t, found)

	value, found = env.Get("SET")
	require.True(t, found)
	require.Equal(t, "1", value)
}

func TestEnvironmentFromArray(t *testing.T) {
	a, err := Environment{"A": "1"}.ToCharpp()
	require.NoError(t, err)

	require.Equal(t, Environment{"A": "1"}, EnvironmentFromArray(a, false))
	require.False(t, a.Released())

	require.Equal(t, Environment{"A": "1"}, EnvironmentFromArray(a, true))
	require.True(t, a.Released())
}

func TestEnvironment_Clone(t *testing.T) {
	env := Environment{"A": "1"}
	clone := env.Clone()
	clone["A"] = "2"
	require.Equal(t, "1", env["A"])
}
