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

package cmd_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	commonerrors "github.com/tetratelabs/procctl/pkg/errors"
	"github.com/tetratelabs/procctl/pkg/thisprocess"
	"github.com/tetratelabs/procctl/pkg/util/exec"
)

func TestProcctlSh(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out")

	_, stderr, err := runProcctl(t, "", "sh", "echo", "hello", ">", file)

	require.NoError(t, err)
	require.Empty(t, stderr)
	out, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(out))
}

func TestProcctlSh_ExitCode(t *testing.T) {
	tests := []struct {
		name         string
		command      string
		expectedCode int
		expectedErr  error
	}{
		{
			name:         "exit 3",
			command:      "exit 3",
			expectedCode: 3,
		},
		{
			name:         "command not found",
			command:      "exec /does/not/exist",
			expectedCode: thisprocess.ShellNotExecutableCode,
			expectedErr:  thisprocess.ErrShellNotExecutable,
		},
	}

	for _, test := range tests {
		test := test // pin! see https://github.com/kyoh86/scopelint for why

		t.Run(test.name, func(t *testing.T) {
			_, stderr, err := runProcctl(t, "", "sh", test.command)

			var runErr *exec.RunError
			require.True(t, errors.As(err, &runErr), "expected a run error, got %v", err)
			require.Equal(t, test.expectedCode, runErr.ExitCode().Code())
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
			}
			require.Contains(t, stderr, "Error: failed to execute an external command \""+test.command+"\"")
		})
	}
}

func TestProcctlSh_ShellNotExecutable(t *testing.T) {
	defer func(shell string) { thisprocess.Shell = shell }(thisprocess.Shell)

	_, _, err := runProcctl(t, "", "--shell", "/does/not/exist", "sh", "true")

	require.ErrorIs(t, err, thisprocess.ErrShellNotExecutable)
	var runErr *exec.RunError
	require.False(t, errors.As(err, &runErr))
}

func TestProcctlSleep(t *testing.T) {
	start := time.Now()

	_, _, err := runProcctl(t, "", "sleep", "50ms")

	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestProcctlSleep_InvalidDuration(t *testing.T) {
	_, stderr, err := runProcctl(t, "", "sleep", "forever")

	var validationErr *commonerrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Equal(t, "Error: \"forever\" is not a valid duration\n\nRun 'procctl sleep --help' for usage.\n", stderr)
}
