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
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/deemoji/cmd/deemoji/opts"
	"github.com/walteh/deemoji/pkg/restore"
	"github.com/walteh/deemoji/pkg/ui"
	"gitlab.com/tozd/go/errors"
)

// NewRestoreCmd creates the command that writes a backup back to disk
func NewRestoreCmd(opts *opts.RootOpts) *cobra.Command {
	var dest, latest string

	cmd := &cobra.Command{
		Use:   "restore [artifact]",
		Short: "Restore a file from a backup",
		Long: `Restore copies one backup artifact to a destination path, byte for byte.
Without an artifact argument the available backups are offered newest first.
Without --to the destination is asked for, suggesting the original file name.
With --latest the newest backup of that file is restored over it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flow := restore.New(opts.Backups, opts.Files)

			if latest != "" {
				entry, err := flow.LatestFor(ctx, latest)
				if errors.Is(err, restore.ErrNoBackups) {
					opts.Console.Infof("No backups found for %s", filepath.Base(latest))
					return nil
				}
				if err != nil {
					return err
				}
				target := entry.Suggested
				if dest != "" {
					target = dest
				}
				if err := flow.Restore(ctx, entry.Artifact, target); err != nil {
					return errors.Errorf("restore failed: %w", err)
				}
				opts.Console.Successf("Restored %s to %s", entry.DisplayName, target)
				return nil
			}

			entries, err := flow.ListRestorable(ctx)
			if errors.Is(err, restore.ErrNoBackups) {
				opts.Console.Info("No backups found")
				return nil
			}
			if err != nil {
				return err
			}

			var entry restore.Entry
			if len(args) == 1 {
				var ok bool
				entry, ok = findEntry(entries, args[0])
				if !ok {
					return errors.Errorf("no backup named %s in %s", args[0], opts.Backups.Dir())
				}
			} else {
				names := make([]string, len(entries))
				for i, e := range entries {
					names[i] = e.DisplayName
				}
				choice, err := opts.Prompter.Select(ctx, "Select a backup to restore", names)
				if errors.Is(err, ui.ErrCancelled) {
					opts.Console.Info("Restore cancelled")
					return nil
				}
				if err != nil {
					return err
				}
				entry, _ = findEntry(entries, choice)
			}

			target := dest
			if target == "" {
				target, err = opts.Prompter.Input(ctx, "Restore to", entry.Suggested)
				if errors.Is(err, ui.ErrCancelled) {
					opts.Console.Info("Restore cancelled")
					return nil
				}
				if err != nil {
					return err
				}
			}

			if err := flow.Restore(ctx, entry.Artifact, target); err != nil {
				return errors.Errorf("restore failed: %w", err)
			}

			opts.Console.Successf("Restored %s to %s", entry.DisplayName, target)
			return nil
		},
	}

	cmd.Flags().StringVar(&dest, "to", "", "destination path")
	cmd.Flags().StringVar(&latest, "latest", "", "restore the newest backup of this file")

	return cmd
}

func findEntry(entries []restore.Entry, name string) (restore.Entry, bool) {
	for _, e := range entries {
		if e.DisplayName == name || e.Artifact == name || e.DisplayName == filepath.Base(name) {
			return e, true
		}
	}
	return restore.Entry{}, false
}
