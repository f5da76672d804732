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

package os

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetenv(t *testing.T) {
	t.Setenv("PROCCTL_GETENV_TEST", "")
	require.Equal(t, "fallback", Getenv("PROCCTL_GETENV_TEST", "fallback"))

	t.Setenv("PROCCTL_GETENV_TEST", "value")
	require.Equal(t, "value", Getenv("PROCCTL_GETENV_TEST", "fallback"))
}

func TestIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	require.False(t, IsRegularFile(dir))

	file, err := os.CreateTemp(dir, "regular")
	require.NoError(t, err)
	require.NoError(t, file.Close())
	require.True(t, IsRegularFile(file.Name()))
}
