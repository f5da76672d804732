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


package globals

import (
	"time"

	"github.com/tetratelabs/procctl/pkg/config"
)

const (
	// DefaultShell is the default value for GlobalOpts.Shell
	DefaultShell = "/bin/sh"
	// DefaultConfigName is the name of the configuration file looked up in the home directory.
	DefaultConfigName = "config.yaml"
)

// GlobalOpts represents options that affect more than one procctl commands.
//
// Fields representing non-hidden flags have values set according to the following rules:
//  1) value that precedes flag parsing, used in tests
//  2) to a value of the command line argument, e.g. `--shell`
//  3) optional mapping to an environment variable, e.g. `PROCCTL_SHELL`
//  4) the value in the configuration file, e.g. `shell: /bin/bash`
//  5) otherwise, to the default value, e.g. `/bin/sh`
type GlobalOpts struct {
	// ConfigFile is the YAML file Config was loaded from. Defaults to "$HomeDir/config.yaml"
	ConfigFile string
	// Shell runs commands given to "procctl sh". Defaults to DefaultShell
	Shell string
	// GracePeriod is how long a child has to exit after SIGTERM before it is killed.
	GracePeriod time.Duration
	// Config holds defaults for spawned children, such as extra environment variables.
	Config config.Config
}
