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
	"time"

	"github.com/spf13/cobra"

	commonerrors "github.com/tetratelabs/procctl/pkg/errors"
	"github.com/tetratelabs/procctl/pkg/thisprocess"
)

// NewSleepCmd returns command that suspends procctl
func NewSleepCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sleep <duration>",
		Short:   "Suspend procctl for a while",
		Long:    `Suspend procctl for a duration such as "1.5s". An interrupted sleep is not resumed and fails.`,
		Example: `  procctl sleep 250ms`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			d, err := time.ParseDuration(args[0])
			if err != nil || d < 0 {
				return commonerrors.NewValidationError("%q is not a valid duration", args[0])
			}
			return thisprocess.SleepFor(d)
		},
	}
}
