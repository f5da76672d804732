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

package thisprocess

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrShellNotExecutable means the shell used by Execute could not run.
var ErrShellNotExecutable = errors.New("shell is not executable")

// ExecuteError represents a failure to run a command with the shell.
type ExecuteError struct {
	Command string
	Shell   string
	Err     error
}

func (e *ExecuteError) Error() string {
	return fmt.Sprintf("failed to execute %q with %s: %v", e.Command, e.Shell, e.Err)
}

// Unwrap allows errors.Is(err, ErrShellNotExecutable).
func (e *ExecuteError) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors causer.
func (e *ExecuteError) Cause() error {
	return e.Err
}
