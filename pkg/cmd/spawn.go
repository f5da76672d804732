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
	"context"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/tetratelabs/procctl/pkg/charpp"
	"github.com/tetratelabs/procctl/pkg/environ"
	commonerrors "github.com/tetratelabs/procctl/pkg/errors"
	"github.com/tetratelabs/procctl/pkg/globals"
	"github.com/tetratelabs/procctl/pkg/process"
	cmdutil "github.com/tetratelabs/procctl/pkg/util/cmd"
	"github.com/tetratelabs/procctl/pkg/util/exec"
)

// NewSpawnCmd returns command that spawns and supervises a child process
func NewSpawnCmd(o *globals.GlobalOpts) *cobra.Command {
	var (
		group    bool
		redirect []string
		timeout  time.Duration
		env      []string
		command  string
	)
	cmd := &cobra.Command{
		Use:   "spawn [flags] [-- <path> [args...]]",
		Short: "Spawn a child process and wait for it",
		Long: `Spawn a child process and wait for it to exit. Redirected streams are copied through procctl.
A Ctrl-C stops the child: SIGTERM first, then SIGKILL once the grace period is over.
The exit status of procctl mirrors the one of the child.`,
		Example: `  # Run a command, piping its stdout and stderr
  procctl spawn -- ls -l

  # Give a command 10 seconds, in its own process group
  procctl spawn --group --timeout 10s --command "sh -c 'sleep 60 & sleep 60'"

  # Pipe procctl's stdin into the child too
  echo hello | procctl spawn --redirect all -- cat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			argv, err := spawnArgs(o, command, args)
			if err != nil {
				return err
			}
			childEnv, err := mergeEnv(o, env)
			if err != nil {
				return err
			}
			var r process.Redirect
			if cmd.Flags().Changed("redirect") || len(o.Config.Redirect) == 0 {
				r, err = process.ParseRedirect(redirect...)
			} else {
				r, err = o.Config.Streams()
			}
			if err != nil {
				return commonerrors.NewValidationError(err.Error())
			}
			if !cmd.Flags().Changed("group") {
				group = o.Config.Group
			}

			body := process.Command(argv[0], argv[1:]...)
			if childEnv != nil {
				body = process.CommandEnv(childEnv, argv[0], argv[1:]...)
			}
			p, err := process.Spawn(body, group, r)
			if err != nil {
				return err
			}
			defer p.Close() //nolint:errcheck
			p.GracePeriod = o.GracePeriod

			ctx := context.Background()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			streams := cmdutil.StreamsOf(cmd)
			if isTerminal(streams.In) {
				// a terminal never reaches EOF, so the copy would outlive the child
				streams.In = nil
			}
			return exec.RunContext(ctx, p, streams)
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "make the child the leader of a new process group, signaled as a whole")
	cmd.Flags().StringSliceVar(&redirect, "redirect", []string{"stdout", "stderr"},
		"streams piped through procctl: stdin, stdout, stderr, all or none")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "stop the child if it is still running after this long")
	cmd.Flags().StringArrayVarP(&env, "env", "e", nil, "add NAME=VALUE to the environment of the child")
	cmd.Flags().StringVarP(&command, "command", "c", "", "command line to spawn, split into arguments like a shell would")
	return cmd
}

func spawnArgs(o *globals.GlobalOpts, command string, args []string) ([]string, error) {
	if len(args) > 0 {
		if command != "" {
			return nil, commonerrors.NewValidationError("either --command or arguments can be given, not both")
		}
		return args, nil
	}
	if command != "" {
		argv, err := shellwords.Parse(command)
		if err != nil {
			return nil, commonerrors.NewValidationError("invalid --command %q: %v", command, err)
		}
		args = argv
	} else {
		argv, err := o.Config.CommandArgs()
		if err != nil {
			return nil, err
		}
		args = argv
	}
	if len(args) == 0 {
		return nil, commonerrors.NewValidationError("missing command to spawn")
	}
	return args, nil
}

// mergeEnv returns the environment of a child: the current one, overlaid by the configuration file and then by
// "NAME=VALUE" flags. It returns nil when there is nothing to add, so the child simply inherits.
func mergeEnv(o *globals.GlobalOpts, entries []string) (charpp.Environment, error) {
	if len(entries) == 0 && len(o.Config.Env) == 0 {
		return nil, nil
	}
	env := environ.Snapshot()
	for name, value := range o.Config.Environment() {
		env[name] = value
	}
	for _, entry := range entries {
		name, value, found := charpp.SplitEntry(entry)
		if !found {
			return nil, commonerrors.NewValidationError("%q is not a NAME=VALUE pair", entry)
		}
		if err := charpp.ValidateName(name); err != nil {
			return nil, commonerrors.NewValidationError(err.Error())
		}
		env[name] = value
	}
	return env, nil
}

func isTerminal(in interface{}) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
