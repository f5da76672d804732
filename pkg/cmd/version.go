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

	"github.com/spf13/cobra"

	"github.com/tetratelabs/procctl/pkg/version"
)

// NewVersionCmd returns command that prints the version of procctl
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of procctl",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if version.IsPrerelease() && !version.IsDevBuild() {
				fmt.Fprintf(cmd.OutOrStdout(), "procctl version %s (pre-release)\n", version.Build.Version)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "procctl version %s\n", version.Build.Version)
		},
	}
}
