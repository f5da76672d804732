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
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/tetratelabs/procctl/pkg/charpp"
	"github.com/tetratelabs/procctl/pkg/moreos"
)

// Body is what a spawned child runs: an external command or a registered callback.
type Body interface {
	// prepare returns the path to execute, argv (argv[0] included) and envp. A nil envp inherits the environment.
	prepare() (path string, argv, envp *charpp.Array, err error)
}

type command struct {
	path string
	args charpp.Arguments
	env  charpp.Environment
}

// Command runs the executable at path with args. A path without a slash is looked up in PATH. The child inherits
// the environment of the calling process.
func Command(path string, args ...string) Body {
	return &command{path: path, args: args}
}

// CommandEnv is like Command, except the child gets exactly env as its environment. A path without a slash is looked
// up in the PATH of env when it defines one, otherwise in the PATH of the calling process.
func CommandEnv(env charpp.Environment, path string, args ...string) Body {
	if env == nil {
		env = charpp.Environment{}
	}
	return &command{path: path, args: args, env: env}
}

func (c *command) prepare() (string, *charpp.Array, *charpp.Array, error) {
	path := c.path
	if !strings.Contains(path, "/") {
		found, err := c.lookPath()
		if err != nil {
			return "", nil, nil, &Error{Op: "lookpath", Err: err}
		}
		path = found
	}

	argv := c.args.ToCharpp(c.path)
	if c.env == nil {
		return path, argv, nil, nil
	}
	envp, err := c.env.ToCharpp()
	if err != nil {
		argv.Release()
		return "", nil, nil, err
	}
	return path, argv, envp, nil
}

func (c *command) lookPath() (string, error) {
	dirs, ok := c.env.Get("PATH")
	if !ok {
		return exec.LookPath(c.path)
	}
	for _, dir := range filepath.SplitList(dirs) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, c.path)
		if info, err := os.Stat(candidate); err == nil && moreos.IsExecutable(info) {
			return candidate, nil
		}
	}
	return "", &exec.Error{Name: c.path, Err: exec.ErrNotFound}
}

func (c *command) String() string {
	return c.path
}

var (
	callbacksMu sync.Mutex
	callbacks   = map[string]func() int{}
)

// Register makes fn available to Func under name. It panics if name is already taken.
//
// A Go program cannot keep running arbitrary code in a raw fork, so callbacks are run by executing the current binary
// again with argv[0] set to name. The binary must call Init before doing anything else, usually first thing in main
// or TestMain, and register its callbacks from init functions or package variables so they exist by then.
func Register(name string, fn func() int) {
	callbacksMu.Lock()
	defer callbacksMu.Unlock()
	if _, exists := callbacks[name]; exists {
		panic(fmt.Sprintf("process: callback %q already registered", name))
	}
	callbacks[name] = fn
}

func lookupCallback(name string) (func() int, bool) {
	callbacksMu.Lock()
	defer callbacksMu.Unlock()
	fn, ok := callbacks[name]
	return fn, ok
}

// osExit is swapped in tests.
var osExit = os.Exit

// Init runs the registered callback named by os.Args[0] and exits with its return code, so a callback child never
// returns to the spawning control flow. When os.Args[0] doesn't name a callback, Init returns false.
func Init() bool {
	fn, ok := lookupCallback(os.Args[0])
	if !ok {
		return false
	}
	osExit(fn())
	return true
}

// executable is swapped in tests.
var executable = os.Executable

type callback struct {
	name string
	args charpp.Arguments
}

// Func runs the callback registered under name in a child process. args are visible to the callback as os.Args[1:].
func Func(name string, args ...string) Body {
	return &callback{name: name, args: args}
}

func (c *callback) prepare() (string, *charpp.Array, *charpp.Array, error) {
	if _, ok := lookupCallback(c.name); !ok {
		return "", nil, nil, errors.Errorf("process: no callback registered as %q", c.name)
	}
	self, err := executable()
	if err != nil {
		return "", nil, nil, &Error{Op: "executable", Err: err}
	}
	return self, c.args.ToCharpp(c.name), nil, nil
}

func (c *callback) String() string {
	return c.name
}
