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

package moreos

import (
	"os"
	"syscall"
)

// ProcessAttr returns the attributes used when forking a child. When group is true the child moves into a process
// group of its own (pgid == pid) before it executes anything, so signals and waits can target the whole group.
func ProcessAttr(group bool) *syscall.SysProcAttr {
	return processAttr(group) // un-exported to prevent godoc drift
}

// IsExecutable returns true if the input is a regular file with at least one execute bit set.
func IsExecutable(f os.FileInfo) bool {
	return f.Mode().IsRegular() && f.Mode()&0o111 != 0
}
