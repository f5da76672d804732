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


package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	commonerrors "github.com/tetratelabs/procctl/pkg/errors"
	"github.com/tetratelabs/procctl/pkg/util/exec"
)

// ErrorHandler prints a command error the way its kind calls for.
type ErrorHandler interface {
	CanHandle(err error) bool
	Handle(cmd *cobra.Command, err error)
}

// ErrorHandlers is tried in order. The last entry should accept any error.
type ErrorHandlers []ErrorHandler

// HandlerFor returns the first ErrorHandler accepting err, or nil.
func (hs ErrorHandlers) HandlerFor(err error) ErrorHandler {
	for _, h := range hs {
		if h.CanHandle(err) {
			return h
		}
	}
	return nil
}

// Handlers is used by cmd.Execute: shutdowns, then failed children, then everything else.
var Handlers = ErrorHandlers{
	shutdownErrorHandler{},
	runErrorHandler{},
	defaultErrorHandler{},
}

func printError(cmd *cobra.Command, err error) {
	message := err.Error()
	fmt.Fprint(cmd.ErrOrStderr(), "Error: ", message, "\n")
	// ensure that an error message is always followed by an empty line
	if !strings.HasSuffix(message, "\n") {
		fmt.Fprint(cmd.ErrOrStderr(), "\n")
	}
}

// defaultErrorHandler represents the default strategy to handle command errors.
type defaultErrorHandler struct{}

func (h defaultErrorHandler) CanHandle(err error) bool {
	return true
}

func (h defaultErrorHandler) Handle(cmd *cobra.Command, err error) {
	if !cmd.SilenceErrors {
		printError(cmd, err)
	}
	if !cmd.SilenceUsage {
		fmt.Fprintf(cmd.ErrOrStderr(), "Run '%v --help' for usage.\n", cmd.CommandPath())
	}
}

// runErrorHandler handles children that failed: usage has nothing to do with it.
type runErrorHandler struct{}

func (h runErrorHandler) CanHandle(err error) bool {
	var runErr *exec.RunError
	return stderrors.As(err, &runErr)
}

func (h runErrorHandler) Handle(cmd *cobra.Command, err error) {
	if !cmd.SilenceErrors {
		printError(cmd, err)
	}
}

// shutdownErrorHandler represents a strategy to handle ShutdownError.
type shutdownErrorHandler struct{}

func (h shutdownErrorHandler) CanHandle(err error) bool {
	return h.asShutdownError(err) != nil
}

func (h shutdownErrorHandler) Handle(cmd *cobra.Command, err error) {
	if serr := h.asShutdownError(err); serr != nil {
		// in case of ShutdownError, we want to avoid any wrapper messages
		fmt.Fprint(cmd.ErrOrStderr(), "NOTE: ", serr.Error(), "\n")
	}
}

func (h shutdownErrorHandler) asShutdownError(err error) *commonerrors.ShutdownError {
	var serr commonerrors.ShutdownError
	if stderrors.As(err, &serr) {
		return &serr
	}
	return nil
}
