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


// Package exec supervises a spawned child on behalf of a command line: its streams are pumped to and from the
// caller, and a Ctrl-C stops the child before returning.
package exec

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/tetratelabs/log"

	commonerrors "github.com/tetratelabs/procctl/pkg/errors"
	"github.com/tetratelabs/procctl/pkg/process"
	ioutil "github.com/tetratelabs/procctl/pkg/util/io"
	osutil "github.com/tetratelabs/procctl/pkg/util/os"
)

var logger = log.RegisterScope("pkg/util/exec", "supervises child processes for the command line", 0)

var (
	setupSignalHandler = osutil.SetupSignalHandler
	wait               = (*process.Process).Wait
)

// NewRunError returns a RunError for cmd, which ended as code.
func NewRunError(cmd string, code process.ExitCode, cause error) *RunError {
	return &RunError{
		cmd:   cmd,
		code:  code,
		cause: cause,
	}
}

// RunError represents an error to run an external command.
type RunError struct {
	cmd   string
	code  process.ExitCode
	cause error
}

// Cmd returns a failed command.
func (e *RunError) Cmd() string {
	return e.cmd
}

// ExitCode returns how the command ended, if known.
func (e *RunError) ExitCode() process.ExitCode {
	return e.code
}

// Cause returns a cause.
func (e *RunError) Cause() error {
	return e.cause
}

// Unwrap allows errors.Is and errors.As on the cause.
func (e *RunError) Unwrap() error {
	return e.cause
}

func (e *RunError) Error() string {
	return fmt.Sprintf("failed to execute an external command %s: %v", e.Cmd(), e.Cause())
}

// Run supervises p until it exits. Redirected streams of p are connected to streams: the child's stdout and stderr
// are copied out, and streams.In is copied into the child's stdin, which is closed right away when streams.In is nil.
// When the current process receives SIGINT or SIGTERM, p is stopped as by Process.Close and a ShutdownError is
// returned. A child that doesn't exit with code 0 results in a *RunError.
func Run(p *process.Process, streams ioutil.StdStreams) error {
	return RunContext(context.Background(), p, streams)
}

// RunContext is like Run, except p is also stopped when ctx is done. The *RunError returned then wraps ctx.Err().
func RunContext(ctx context.Context, p *process.Process, streams ioutil.StdStreams) error {
	logger.Debugf("running: %v", p)

	var wg sync.WaitGroup
	pump := func(dst io.Writer, src *os.File) {
		if src == nil || dst == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := io.Copy(dst, src); err != nil && !stderrors.Is(err, os.ErrClosed) {
				logger.Debugf("stopped copying %s of %v: %v", src.Name(), p, err)
			}
		}()
	}
	pump(streams.Out, p.Stdout())
	pump(streams.Err, p.Stderr())

	// stdin is not waited for: the caller's stdin may never reach EOF
	if stdin := p.Stdin(); stdin != nil && streams.In == nil {
		_ = stdin.Close()
	} else if stdin != nil {
		go func() {
			if _, err := io.Copy(stdin, streams.In); err != nil && !stderrors.Is(err, os.ErrClosed) {
				logger.Debugf("stopped copying stdin of %v: %v", p, err)
			}
			_ = stdin.Close()
		}()
	}

	// setup a cancelable handler for stop signals
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopCh := setupSignalHandler(ctx)

	waitCtx, interrupt := context.WithCancelCause(ctx)
	defer interrupt(nil)
	go func() {
		select {
		case sig, ok := <-stopCh:
			if ok {
				interrupt(commonerrors.NewShutdownError(sig))
			}
		case <-waitCtx.Done():
		}
	}()

	// wait for the child to exit or the current process to get stopped
	if _, err := wait(p, waitCtx); err != nil {
		// the child can't be waited for anymore, so it is stopped whatever the reason
		terminate(p)
		wg.Wait()
		var serr commonerrors.ShutdownError
		if stderrors.As(context.Cause(waitCtx), &serr) {
			return serr
		}
		return NewRunError(p.String(), p.ExitCode(), err)
	}
	wg.Wait()

	if code := p.ExitCode(); !code.Success() {
		return NewRunError(p.String(), code, errors.New(code.String()))
	}
	return nil
}

func terminate(p *process.Process) {
	if err := p.Close(); err != nil {
		logger.Warnf("failed to stop %v: %v", p, err)
	}
}
