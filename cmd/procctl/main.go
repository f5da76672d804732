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

package main

import (
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/tetratelabs/procctl/pkg/cmd"
	commonerrors "github.com/tetratelabs/procctl/pkg/errors"
	"github.com/tetratelabs/procctl/pkg/globals"
	cmdutil "github.com/tetratelabs/procctl/pkg/util/cmd"
	"github.com/tetratelabs/procctl/pkg/util/exec"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args))
}

// run handles all error logging and coding so that no other place needs to.
func run(stdout, stderr io.Writer, args []string) int {
	rootCmd := cmd.NewRoot(&globals.GlobalOpts{})
	rootCmd.SetArgs(args[1:])
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return exitStatus(cmdutil.Execute(rootCmd))
}

// exitStatus mirrors how a child ended, the way a shell would.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var runErr *exec.RunError
	if errors.As(err, &runErr) {
		switch code := runErr.ExitCode(); {
		case code.Exited() && code.Code() != 0:
			return code.Code()
		case code.Signaled():
			return 128 + int(code.Signal())
		}
	}
	var serr commonerrors.ShutdownError
	if errors.As(err, &serr) {
		if sig, ok := serr.Signal().(syscall.Signal); ok {
			return 128 + int(sig)
		}
	}
	return 1
}
