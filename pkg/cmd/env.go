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
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tetratelabs/procctl/pkg/charpp"
	"github.com/tetratelabs/procctl/pkg/environ"
	commonerrors "github.com/tetratelabs/procctl/pkg/errors"
	"github.com/tetratelabs/procctl/pkg/globals"
	"github.com/tetratelabs/procctl/pkg/process"
	cmdutil "github.com/tetratelabs/procctl/pkg/util/cmd"
	"github.com/tetratelabs/procctl/pkg/util/exec"
)

// NewEnvCmd returns command that inspects and changes the environment
func NewEnvCmd(o *globals.GlobalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print or change the environment",
		Long: `Print the environment of procctl, one NAME=VALUE entry per line.
The set and unset sub-commands change it, then run a command with the result, or print it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printEnv(cmd)
			return nil
		},
	}
	cmd.AddCommand(newEnvGetCmd())
	cmd.AddCommand(newEnvSetCmd(o))
	cmd.AddCommand(newEnvUnsetCmd(o))
	return cmd
}

func newEnvGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print the value of an environment variable",
		Long:  `Print the value of an environment variable. Fails if it is not defined, even though it may be empty.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, found := environ.Get(args[0])
			if !found {
				return errors.Errorf("environment variable %q is not defined", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newEnvSetCmd(o *globals.GlobalOpts) *cobra.Command {
	var noOverwrite bool
	cmd := &cobra.Command{
		Use:   "set <NAME=VALUE>... [-- <path> [args...]]",
		Short: "Set environment variables",
		Example: `  # Print the environment with two more variables
  procctl env set A=1 B=2

  # Run a command with GREETING defined, unless it already is
  procctl env set --no-overwrite GREETING=hello -- printenv GREETING`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, command := splitAtDash(cmd, args)
			if len(entries) == 0 {
				return commonerrors.NewValidationError("missing NAME=VALUE")
			}
			for _, entry := range entries {
				name, value, found := charpp.SplitEntry(entry)
				if !found {
					return commonerrors.NewValidationError("%q is not a NAME=VALUE pair", entry)
				}
				if err := environ.Insert(name, value, !noOverwrite); err != nil {
					return commonerrors.NewValidationError(err.Error())
				}
			}
			return runOrPrintEnv(o, cmd, command)
		},
	}
	cmd.Flags().BoolVar(&noOverwrite, "no-overwrite", false, "keep variables that are already defined")
	return cmd
}

func newEnvUnsetCmd(o *globals.GlobalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <NAME>... [-- <path> [args...]]",
		Short: "Remove environment variables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, command := splitAtDash(cmd, args)
			if len(names) == 0 {
				return commonerrors.NewValidationError("missing NAME")
			}
			for _, name := range names {
				if err := environ.Erase(name); err != nil {
					return commonerrors.NewValidationError(err.Error())
				}
			}
			return runOrPrintEnv(o, cmd, command)
		},
	}
}

// splitAtDash separates the arguments of the command itself from the command line after "--".
func splitAtDash(cmd *cobra.Command, args []string) (own, command []string) {
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		return args[:dash], args[dash:]
	}
	return args, nil
}

func printEnv(cmd *cobra.Command) {
	for it, end := environ.Begin(), environ.End(); !it.Equal(end); it = it.Next() {
		fmt.Fprintln(cmd.OutOrStdout(), it.Entry())
	}
}

func runOrPrintEnv(o *globals.GlobalOpts, cmd *cobra.Command, command []string) error {
	if len(command) == 0 {
		printEnv(cmd)
		return nil
	}
	p, err := process.Spawn(process.Command(command[0], command[1:]...), false, process.Stdout|process.Stderr)
	if err != nil {
		return err
	}
	defer p.Close() //nolint:errcheck
	p.GracePeriod = o.GracePeriod

	streams := cmdutil.StreamsOf(cmd)
	streams.In = nil
	return exec.Run(p, streams)
}
