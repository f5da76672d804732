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

// Package process spawns and supervises child processes.
//
// A Process is owned by the goroutine that spawned it and is not safe for concurrent use. Exit classification is
// latched the first time it is observed, so only one Process should ever reap a given child.
//
// Callers must Close a Process once done with it. A handle collected without Close stops its child the same way,
// but only whenever the garbage collector gets to it.
package process

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"syscall"
	"time"

	"bitbucket.org/creachadair/shell"
	"github.com/tetratelabs/log"
	"github.com/tetratelabs/multierror"
	"golang.org/x/sys/unix"

	"github.com/tetratelabs/procctl/pkg/moreos"
)

// DefaultGracePeriod is how long Close waits between SIGTERM and SIGKILL.
const DefaultGracePeriod = 3 * time.Second

var logger = log.RegisterScope("pkg/process", "spawns and reaps child processes", 0)

var (
	forkExec = syscall.ForkExec
	wait4    = unix.Wait4
	kill     = unix.Kill
	environ  = os.Environ
)

// Process is a handle to a spawned child. The zero value is an inactive handle.
type Process struct {
	// GracePeriod is how long Close waits for the child to exit after SIGTERM, before sending SIGKILL.
	GracePeriod time.Duration

	pid   int
	group bool
	args  []string
	state State
	code  ExitCode

	stdin, stdout, stderr *os.File
}

// Spawn starts body in a new child process. When group is true, the child leads a new process group, and Running,
// Join and Signal address the whole group. Streams selected by redirect are connected to pipes readable or writable
// through Stdin, Stdout and Stderr.
//
// The child is placed in its group before body starts, so a failed Spawn never leaves a child behind, and every
// descriptor opened on the way is closed before the error is returned.
func Spawn(body Body, group bool, redirect Redirect) (*Process, error) {
	path, argv, envp, err := body.prepare()
	if err != nil {
		return nil, err
	}
	defer argv.Release()
	defer envp.Release()
	// ForkExec converts argv and envp itself, but must not see a NUL after the pipes are open.
	if err = argv.Validate(); err != nil {
		return nil, err
	}
	if envp != nil {
		if err = envp.Validate(); err != nil {
			return nil, err
		}
	}

	env := envp.Strings()
	if envp == nil {
		env = environ()
	}

	pipes, err := openStdio(redirect)
	if err != nil {
		closePipes(pipes)
		return nil, err
	}

	pid, err := forkExec(path, argv.Strings(), &syscall.ProcAttr{
		Env:   env,
		Files: pipes.childFiles(),
		Sys:   moreos.ProcessAttr(group),
	})
	if err != nil {
		closePipes(pipes)
		return nil, &Error{Op: "fork/exec " + path, Err: err}
	}

	p := &Process{
		GracePeriod: DefaultGracePeriod,
		pid:         pid,
		group:       group,
		args:        argv.Strings(),
		state:       StateActive,
	}

	if err = pipes.closeChildEnds(); err == nil {
		var files [3]*os.File
		files, err = pipes.parentFiles()
		p.stdin, p.stdout, p.stderr = files[0], files[1], files[2]
	}
	if err != nil {
		// Nobody could ever reach the child without the handle.
		closePipes(pipes)
		if cerr := p.abandon(); cerr != nil {
			logger.Warnf("failed to clean up %v: %v", p, cerr)
		}
		return nil, err
	}

	runtime.SetFinalizer(p, (*Process).finalize)
	logger.Debugf("spawned %v (group=%t, redirect=%v)", p, group, redirect)
	return p, nil
}

// finalize must not block the finalizer goroutine for a whole grace period.
func (p *Process) finalize() {
	logger.Warnf("%v was collected without Close", p)
	go func() {
		if err := p.Close(); err != nil {
			logger.Warnf("failed to stop %v: %v", p, err)
		}
	}()
}

func closePipes(pipes stdio) {
	if err := pipes.close(); err != nil {
		logger.Warnf("failed to close pipes: %v", err)
	}
}

// abandon kills and reaps the child, then closes the parent's files.
func (p *Process) abandon() error {
	var errs *multierror.Error
	if _, err := p.Kill(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := p.Join(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := closeFiles([]*os.File{p.stdin, p.stdout, p.stderr}); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

// Pid returns the id of the child, or 0 for an inactive handle.
func (p *Process) Pid() int {
	return p.pid
}

// Group returns true when the child leads its own process group.
func (p *Process) Group() bool {
	return p.group
}

// State returns the state last observed. Use Running to refresh it.
func (p *Process) State() State {
	return p.state
}

// ExitCode returns how the child ended. It is not Valid while the child is active, or when the child was reaped
// outside this handle.
func (p *Process) ExitCode() ExitCode {
	return p.code
}

// Stdin returns the write end of the child's stdin, or nil if it wasn't redirected.
func (p *Process) Stdin() *os.File {
	return p.stdin
}

// Stdout returns the read end of the child's stdout, or nil if it wasn't redirected.
func (p *Process) Stdout() *os.File {
	return p.stdout
}

// Stderr returns the read end of the child's stderr, or nil if it wasn't redirected.
func (p *Process) Stderr() *os.File {
	return p.stderr
}

func (p *Process) String() string {
	if p.pid == 0 {
		return "inactive process"
	}
	return fmt.Sprintf("%q (pid=%d)", shell.Join(p.args), p.pid)
}

// target is the wait and kill argument: the child, or its whole group.
func (p *Process) target() int {
	if p.group {
		return -p.pid
	}
	return p.pid
}

// Running reports whether the child is still active, without blocking. Group members other than the leader are
// reaped along the way, but only the leader's status is kept.
func (p *Process) Running() (bool, error) {
	if err := p.reap(unix.WNOHANG); err != nil {
		return p.state == StateActive, err
	}
	return p.state == StateActive, nil
}

// Join blocks until the child has exited. It returns immediately when the child is not active.
func (p *Process) Join() error {
	return p.reap(0)
}

func (p *Process) reap(options int) error {
	for p.state == StateActive {
		var ws unix.WaitStatus
		pid, err := wait4(p.target(), &ws, options, nil)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ECHILD):
			// Reaped by someone else: the exit happened, but its status is lost.
			p.state = StateExited
			logger.Debugf("%v was reaped elsewhere", p)
		case err != nil:
			return &Error{Op: "wait4", Pid: p.pid, Err: err}
		case pid == 0:
			return nil
		case pid == p.pid:
			if code, ok := FromWaitStatus(ws); ok {
				p.code = code
				p.state = StateExited
				logger.Debugf("%v exited: %v", p, code)
			}
		}
	}
	return nil
}

// Signal sends sig to the child, or to its whole group. It returns false without an error when the child is not
// active or no longer exists.
func (p *Process) Signal(sig syscall.Signal) (bool, error) {
	if p.state != StateActive {
		return false, nil
	}
	if err := kill(p.target(), sig); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return false, nil
		}
		return false, &Error{Op: "kill", Pid: p.pid, Err: err}
	}
	return true, nil
}

// Terminate sends SIGTERM. See Signal.
func (p *Process) Terminate() (bool, error) {
	return p.Signal(unix.SIGTERM)
}

// Kill sends SIGKILL. See Signal.
func (p *Process) Kill() (bool, error) {
	return p.Signal(unix.SIGKILL)
}

// Interrupt sends SIGINT. See Signal.
func (p *Process) Interrupt() (bool, error) {
	return p.Signal(unix.SIGINT)
}

// Close stops the child if it is still active: SIGTERM first, then SIGKILL if it doesn't exit within GracePeriod.
// The child is reaped and the parent's pipe ends are closed. Calling Close again is harmless.
func (p *Process) Close() error {
	if p.pid != 0 {
		runtime.SetFinalizer(p, nil)
	}
	var errs *multierror.Error
	if err := p.stop(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := closeFiles([]*os.File{p.stdin, p.stdout, p.stderr}); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

func (p *Process) stop() error {
	running, err := p.Running()
	if err != nil || !running {
		return err
	}

	if _, err = p.Terminate(); err != nil {
		return err
	}
	exited, err := p.WaitFor(p.GracePeriod)
	if err != nil || exited {
		return err
	}

	logger.Warnf("%v didn't exit within %s of SIGTERM, sending SIGKILL", p, p.GracePeriod)
	if _, err = p.Kill(); err != nil {
		return err
	}
	return p.Join()
}

func isClosed(err error) bool {
	return errors.Is(err, os.ErrClosed)
}
