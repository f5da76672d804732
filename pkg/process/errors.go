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

import "fmt"

// Error records a failed OS call and the child it was made for. Pid is zero when no child exists yet.
type Error struct {
	Op  string
	Pid int
	Err error
}

func (e *Error) Error() string {
	if e.Pid > 0 {
		return fmt.Sprintf("%s (pid=%d): %v", e.Op, e.Pid, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap allows errors.Is(err, unix.EPERM) and similar.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors causer.
func (e *Error) Cause() error {
	return e.Err
}
