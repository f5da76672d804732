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

package cmd

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	valid "github.com/asaskevich/govalidator"
	"github.com/spf13/cobra"
	"github.com/tetratelabs/log"

	"github.com/tetratelabs/procctl/pkg/common"
	"github.com/tetratelabs/procctl/pkg/config"
	commonerrors "github.com/tetratelabs/procctl/pkg/errors"
	"github.com/tetratelabs/procctl/pkg/globals"
	"github.com/tetratelabs/procctl/pkg/process"
	"github.com/tetratelabs/procctl/pkg/version"

	osutil "github.com/tetratelabs/procctl/pkg/util/os"
)

// NewRoot create a new root command. The globals.GlobalOpts parameter allows tests to scope overrides, which avoids
// having to define a flag for everything needed in tests.
func NewRoot(o *globals.GlobalOpts) *cobra.Command {
	var configFile, shell, gracePeriod string
	logOpts := log.DefaultOptions()
	configureLogging := enableLoggingConfig()

	rootCmd := &cobra.Command{
		Use:               "procctl",
		DisableAutoGenTag: true, // removes autogenerate on ___ from produced docs
		Short:             "Spawn, supervise and signal processes",
		Long: `Spawn child processes with optional pipes and process groups, wait for them with a timeout,
signal them, replace the current process or run shell commands.`,
		Version: version.Build.Version,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := setConfig(o, configFile); err != nil {
				return err
			}
			if err := setShell(o, shell); err != nil {
				return err
			}
			if err := setGracePeriod(o, gracePeriod); err != nil {
				return err
			}
			if configureLogging {
				return log.Configure(logOpts)
			}
			return nil
		},
	}

	rootCmd.AddCommand(NewSpawnCmd(o))
	rootCmd.AddCommand(NewExecCmd(o))
	rootCmd.AddCommand(NewShCmd(o))
	rootCmd.AddCommand(NewEnvCmd(o))
	rootCmd.AddCommand(NewSleepCmd())
	rootCmd.AddCommand(NewVersionCmd())

	if configureLogging {
		logOpts.AttachFlags(rootCmd)
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", osutil.Getenv("PROCCTL_CONFIG", ""),
		"procctl configuration file (defaults to $HOME/.procctl/config.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&shell, "shell", osutil.Getenv("PROCCTL_SHELL", ""),
		"absolute path to the shell of 'procctl sh' (defaults to "+globals.DefaultShell+")")
	rootCmd.PersistentFlags().StringVar(&gracePeriod, "grace-period", osutil.Getenv("PROCCTL_GRACE_PERIOD", ""),
		"how long a child has to exit after SIGTERM before it is killed (defaults to "+
			process.DefaultGracePeriod.String()+")")
	return rootCmd
}

func setConfig(o *globals.GlobalOpts, configFile string) error {
	if o.ConfigFile != "" { // overridden for tests
		configFile = o.ConfigFile
	}
	optional := false
	if configFile == "" {
		configFile = filepath.Join(common.HomeDir, globals.DefaultConfigName)
		optional = true
	}
	if !optional && !osutil.IsRegularFile(configFile) {
		return commonerrors.NewValidationError("configuration file %q is missing or not a regular file", configFile)
	}
	c, err := config.Load(configFile, optional)
	if err != nil {
		return commonerrors.NewValidationError(err.Error())
	}
	o.ConfigFile = configFile
	o.Config = *c
	return nil
}

func setShell(o *globals.GlobalOpts, shell string) error {
	if o.Shell != "" { // overridden for tests
		return nil
	}
	switch {
	case shell != "":
		if ok, kind := valid.IsFilePath(shell); !ok || kind != valid.Unix {
			return commonerrors.NewValidationError("%q is not an absolute path to a shell", shell)
		}
		o.Shell = shell
	case o.Config.Shell != "":
		o.Shell = o.Config.Shell
	default:
		o.Shell = globals.DefaultShell
	}
	return nil
}

func setGracePeriod(o *globals.GlobalOpts, gracePeriod string) error {
	if o.GracePeriod != 0 { // overridden for tests
		return nil
	}
	switch {
	case gracePeriod != "":
		d, err := time.ParseDuration(gracePeriod)
		if err != nil || d < 0 {
			return commonerrors.NewValidationError("%q is not a valid grace period", gracePeriod)
		}
		o.GracePeriod = d
	case o.Config.GracePeriod != 0:
		o.GracePeriod = time.Duration(o.Config.GracePeriod)
	default:
		o.GracePeriod = process.DefaultGracePeriod
	}
	return nil
}

// enableLoggingConfig checks whether logging should be configurable.
//
// At the moment, logging configuration is disabled by default to avoid abundance of options.
func enableLoggingConfig() bool {
	if enable, err := strconv.ParseBool(os.Getenv("EXPERIMENTAL_PROCCTL_LOGGING_CONFIG")); err == nil {
		return enable
	}
	return false
}
