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

// Package thisprocess acts on the calling process itself: replacing its image, running shell commands and sleeping.
package thisprocess

import (
	"errors"
	"os"
	"time"
	"unsafe"

	"github.com/tetratelabs/log"
	"golang.org/x/sys/unix"

	"github.com/tetratelabs/procctl/pkg/charpp"
	"github.com/tetratelabs/procctl/pkg/environ"
	"github.com/tetratelabs/procctl/pkg/moreos"
	"github.com/tetratelabs/procctl/pkg/process"
)

var logger = log.RegisterScope("pkg/thisprocess", "acts on the current process", 0)

// Shell is the interpreter used by Execute.
var Shell = "/bin/sh"

// ShellNotExecutableCode is the exit code a shell uses when it cannot run what it was asked to.
const ShellNotExecutableCode = 127

var (
	execve    = rawExecve
	nanosleep = unix.Nanosleep
)

// rawExecve hands NUL-terminated argv and envp arrays, each ending with a nil pointer, to execve.
func rawExecve(path *byte, argv, envp []*byte) error {
	_, _, errno := unix.Syscall(unix.SYS_EXECVE,
		uintptr(unsafe.Pointer(path)),
		uintptr(unsafe.Pointer(&argv[0])),
		uintptr(unsafe.Pointer(&envp[0])))
	return errno
}

// ID returns the process id of the caller.
func ID() int {
	return os.Getpid()
}

// ParentID returns the process id of the caller's parent.
func ParentID() int {
	return os.Getppid()
}

// Replace replaces the current process image with the executable at path, keeping the current environment. args
// follow path in the new argv. Replace only returns on failure, with an *os.SyscallError.
func Replace(path string, args ...string) error {
	return ReplaceWithEnv(environ.Snapshot(), path, args...)
}

// ReplaceWithEnv is like Replace, except the new image gets exactly env as its environment.
func ReplaceWithEnv(env charpp.Environment, path string, args ...string) error {
	envp, err := env.ToCharpp()
	if err != nil {
		return err
	}
	defer envp.Release()
	argv := charpp.Arguments(args).ToCharpp(path)
	defer argv.Release()

	pathp, err := unix.BytePtrFromString(path)
	if err != nil {
		return os.NewSyscallError("execve", err)
	}
	argvp, err := argv.Pointers()
	if err != nil {
		return err
	}
	envpp, err := envp.Pointers()
	if err != nil {
		return err
	}

	logger.Debugf("replacing process %d with %s", ID(), path)
	return os.NewSyscallError("execve", execve(pathp, argvp, envpp))
}

// Execute runs command with Shell and waits for it. The result classifies how the shell ended.
//
// When Shell is missing or cannot be executed, or the shell exits with ShellNotExecutableCode, the error is an
// *ExecuteError wrapping ErrShellNotExecutable. Any other failure to run the shell is an *ExecuteError too.
func Execute(command string) (process.ExitCode, error) {
	shell := Shell
	if info, err := os.Stat(shell); err != nil || !moreos.IsExecutable(info) {
		return process.ExitCode{}, &ExecuteError{Command: command, Shell: shell, Err: ErrShellNotExecutable}
	}

	logger.Debugf("executing %q with %s", command, shell)
	p, err := process.Spawn(process.Command(shell, "-c", command), false, process.None)
	if err != nil {
		if isNotExecutable(err) {
			err = ErrShellNotExecutable
		}
		return process.ExitCode{}, &ExecuteError{Command: command, Shell: shell, Err: err}
	}
	defer p.Close() //nolint:errcheck

	if err = p.Join(); err != nil {
		return process.ExitCode{}, &ExecuteError{Command: command, Shell: shell, Err: err}
	}

	code := p.ExitCode()
	if code.Exited() && code.Code() == ShellNotExecutableCode {
		return code, &ExecuteError{Command: command, Shell: shell, Err: ErrShellNotExecutable}
	}
	return code, nil
}

func isNotExecutable(err error) bool {
	return errors.Is(err, unix.ENOENT) || errors.Is(err, unix.EACCES) || errors.Is(err, unix.ENOEXEC)
}

// SleepFor suspends the calling thread for d. An interrupted sleep is not resumed: it returns an *os.SyscallError
// wrapping unix.EINTR.
func SleepFor(d time.Duration) error {
	if d < 0 {
		d = 0
	}
	ts := unix.NsecToTimespec(d.Nanoseconds())
	if err := nanosleep(&ts, nil); err != nil {
		return os.NewSyscallError("nanosleep", err)
	}
	return nil
}
