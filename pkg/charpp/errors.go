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
	"fmt"

	"github.com/pkg/errors"
)

// ErrReleased is returned when converting an Array that was already released.
var ErrReleased = errors.New("charpp: array already released")

// EntryError reports a string that cannot be converted to a C string.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("charpp: entry %d: %v", e.Index, e.Err)
}

// Unwrap allows errors.Is(err, unix.EINVAL).
func (e *EntryError) Unwrap() error {
	return e.Err
}
