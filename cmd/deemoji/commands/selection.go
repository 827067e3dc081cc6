// Copyright 2025 walteh LLC
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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/deemoji/cmd/deemoji/opts"
	"github.com/walteh/deemoji/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewSelectionCmd creates the command that cleans line ranges of one file
func NewSelectionCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		lines  []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "selection <path> --lines A-B [--lines C]",
		Short: "Remove emojis from line ranges of a file",
		Long: `Selection removes emojis only inside the given 1-based, inclusive line
ranges and leaves every other line untouched. The whole original file is
backed up before the write.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			ranges := make([]operation.LineRange, 0, len(lines))
			for _, l := range lines {
				r, err := operation.ParseLineRange(l)
				if err != nil {
					return err
				}
				ranges = append(ranges, r)
			}

			op, err := opts.Operator(ctx, operationOpts(dryRun))
			if err != nil {
				return err
			}

			res, err := op.CleanSelection(ctx, path, ranges)
			switch {
			case errors.Is(err, operation.ErrEmptySelection):
				opts.Console.Warning("No text selected")
				return nil
			case errors.Is(err, operation.ErrNoEmojis):
				opts.Console.Warningf("No emojis found in the selected lines of %s", path)
				return nil
			case errors.Is(err, operation.ErrNotText):
				opts.Console.Warningf("Skipping %s: not a UTF-8 text file", path)
				return nil
			case err != nil:
				return err
			}

			reportDocument(opts, res, dryRun)
			if !dryRun {
				opts.RequestStar(ctx)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&lines, "lines", "l", nil, "line range to clean, N or N-M (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")

	return cmd
}
