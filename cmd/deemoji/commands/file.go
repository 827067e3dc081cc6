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

// NewFileCmd creates the command that cleans whole files
func NewFileCmd(opts *opts.RootOpts) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "file <path|-> [path...]",
		Short: "Remove emojis from whole files",
		Long: `File removes every emoji from each given file.
It will:
1. Read the file
2. Remove emojis and repair the surrounding whitespace
3. Back up the original
4. Write the cleaned content

"-" reads stdin and writes the cleaned text to stdout without a backup.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, err := opts.Operator(ctx, operationOpts(dryRun))
			if err != nil {
				return err
			}

			cleaned := 0
			for _, path := range args {
				if path == "-" {
					if _, err := op.CleanStream(ctx, opts.Stdin, opts.Stdout); err != nil {
						return errors.Errorf("cleaning stdin: %w", err)
					}
					continue
				}

				res, err := op.CleanDocument(ctx, path)
				switch {
				case errors.Is(err, operation.ErrNoEmojis):
					opts.Console.Warningf("No emojis found in %s", path)
					continue
				case errors.Is(err, operation.ErrNotText):
					opts.Console.Warningf("Skipping %s: not a UTF-8 text file", path)
					continue
				case err != nil:
					return err
				}

				cleaned++
				reportDocument(opts, res, dryRun)
			}

			if cleaned > 0 && !dryRun {
				opts.RequestStar(ctx)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")

	return cmd
}

func operationOpts(dryRun bool) opts.OperatorOptions {
	return opts.OperatorOptions{DryRun: dryRun}
}

func reportDocument(opts *opts.RootOpts, res *operation.DocumentResult, dryRun bool) {
	switch {
	case dryRun:
		opts.Console.Infof("Would remove %d emojis from %s", res.Removed, res.Path)
	case res.Backup == "":
		opts.Console.Warningf("Removed %d emojis from %s, but the backup failed", res.Removed, res.Path)
	default:
		opts.Console.Successf("Removed %d emojis from %s (backup: %s)", res.Removed, res.Path, res.Backup)
	}
}
