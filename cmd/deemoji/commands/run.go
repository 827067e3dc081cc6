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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/deemoji/cmd/deemoji/opts"
	"github.com/walteh/deemoji/pkg/fileset"
	"github.com/walteh/deemoji/pkg/log"
	"github.com/walteh/deemoji/pkg/metrics"
	"github.com/walteh/deemoji/pkg/ui"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates the batch command
func NewRunCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		yes         bool
		dryRun      bool
		include     []string
		exclude     []string
		jobs        int
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "run [root...]",
		Short: "Remove emojis from every matching file under the roots",
		Long: `Run removes emojis from every file selected by filePatterns and not
excluded by excludePatterns, under each root (the working directory by default).
It will:
1. Resolve the file set
2. Ask for confirmation
3. Back up and rewrite every file that contains emojis
4. Report how many files were processed, modified and backed up`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := rootOpts.Config

			roots := args
			if len(roots) == 0 {
				roots = []string{"."}
			}

			fsOpts := cfg.FilesetOptions(roots)
			if cmd.Flags().Changed("include") {
				fsOpts.Include = include
			}
			if cmd.Flags().Changed("exclude") {
				fsOpts.Exclude = exclude
			}
			files, err := fileset.Resolve(ctx, fsOpts)
			if err != nil {
				if errors.Is(err, fileset.ErrNoRoots) {
					rootOpts.Console.Warning("No workspace folder to process")
					return nil
				}
				return err
			}
			if len(files) == 0 {
				rootOpts.Console.Warning("No files matched the configured patterns")
				return nil
			}

			if !dryRun {
				prompter := rootOpts.Prompter
				if yes {
					prompter = ui.Unattended{Assume: true}
				}
				ok, err := prompter.Confirm(ctx, confirmQuestion(len(files), rootOpts.Backups.Dir()), false)
				if err != nil {
					return err
				}
				if !ok {
					rootOpts.Console.Info("Cancelled, no files were changed")
					return nil
				}
			}

			var recorder *metrics.Recorder
			if metricsFile != "" {
				recorder = metrics.New()
			}

			op, err := rootOpts.Operator(ctx, opts.OperatorOptions{
				DryRun:      dryRun,
				Concurrency: jobs,
				Metrics:     recorder,
				Progress:    true,
			})
			if err != nil {
				return err
			}

			rootOpts.Console.StartRunOperation(ctx, log.RunOperation{Roots: roots, Files: len(files), DryRun: dryRun})
			summary, runErr := op.Run(ctx, files)
			rootOpts.Console.EndRunOperation(ctx, summary)

			if err := recorder.WriteTextfile(metricsFile); err != nil {
				rootOpts.Console.Warningf("Could not write metrics: %v", err)
			}

			if runErr != nil {
				return runErr
			}
			if !dryRun && summary.Modified > 0 {
				rootOpts.RequestStar(ctx)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().StringSliceVar(&include, "include", nil, "glob patterns selecting files, replaces filePatterns")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "glob patterns excluding files, replaces excludePatterns")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files processed at once, overrides concurrency")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this textfile")

	return cmd
}

func confirmQuestion(files int, backupDir string) string {
	noun := "files"
	if files == 1 {
		noun = "file"
	}
	return fmt.Sprintf("Remove emojis from %d %s? Originals are backed up to %s", files, noun, backupDir)
}
