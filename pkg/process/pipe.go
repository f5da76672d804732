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

import (
	"os"

	"github.com/tetratelabs/multierror"
	"golang.org/x/sys/unix"
)

var (
	pipe2       = unix.Pipe2
	setNonblock = unix.SetNonblock
)

// pipe owns both descriptors of a pipe until they are closed or handed over. A released end is -1.
type pipe struct {
	r, w int
}

func openPipe() (*pipe, error) {
	var fds [2]int
	if err := pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return nil, &Error{Op: "pipe2", Err: err}
	}
	return &pipe{r: fds[0], w: fds[1]}, nil
}

func closeFd(fd *int) error {
	if *fd < 0 {
		return nil
	}
	err := unix.Close(*fd)
	*fd = -1
	return err
}

// stdio holds the pipes of stdin, stdout and stderr, in that order. Unredirected streams are nil.
type stdio [3]*pipe

func openStdio(redirect Redirect) (s stdio, err error) {
	for i, n := range redirectNames {
		if !redirect.Has(n.r) {
			continue
		}
		if s[i], err = openPipe(); err != nil {
			return s, err
		}
	}
	return s, nil
}

// childFiles returns the descriptor table of the child: a pipe end for redirected streams, otherwise the parent's own.
func (s stdio) childFiles() []uintptr {
	files := []uintptr{0, 1, 2}
	for i, p := range s {
		if p == nil {
			continue
		}
		if i == 0 {
			files[i] = uintptr(p.r)
		} else {
			files[i] = uintptr(p.w)
		}
	}
	return files
}

func (s stdio) closeChildEnds() error {
	var errs *multierror.Error
	for i, p := range s {
		if p == nil {
			continue
		}
		end := &p.w
		if i == 0 {
			end = &p.r
		}
		if err := closeFd(end); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// parentFiles hands the parent ends over to *os.File, switched to non-blocking mode so reads and writes go
// through the runtime poller.
func (s stdio) parentFiles() (files [3]*os.File, err error) {
	for i, p := range s {
		if p == nil {
			continue
		}
		end := &p.r
		if i == 0 {
			end = &p.w
		}
		if err = setNonblock(*end, true); err != nil {
			return files, &Error{Op: "setnonblock", Err: err}
		}
		files[i] = os.NewFile(uintptr(*end), redirectNames[i].name)
		*end = -1
	}
	return files, nil
}

// close releases every descriptor still owned.
func (s stdio) close() error {
	var errs *multierror.Error
	for _, p := range s {
		if p == nil {
			continue
		}
		for _, end := range []*int{&p.r, &p.w} {
			if err := closeFd(end); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	}
	return errs.ErrorOrNil()
}

func closeFiles(files []*os.File) error {
	var errs *multierror.Error
	for _, f := range files {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && !isClosed(err) {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}
