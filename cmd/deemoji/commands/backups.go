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
	"github.com/walteh/deemoji/pkg/backup"
	"github.com/walteh/deemoji/pkg/promo"
	"gitlab.com/tozd/go/errors"
)

// NewBackupsCmd creates the command that shows where backups are kept
func NewBackupsCmd(opts *opts.RootOpts) *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "backups",
		Short: "Show the backup location",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := opts.Backups.Dir()

			if !opts.Backups.Exists(ctx) {
				opts.Console.Infof("No backups yet. They will be stored in %s", dir)
				return nil
			}

			opts.Console.Infof("Backups are stored in %s", dir)
			if open {
				p, err := promo.New(opts.Promo)
				if err != nil {
					return err
				}
				if err := p.Open(ctx, dir); err != nil {
					opts.Console.Warningf("Could not open %s: %v", dir, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "open the backup directory")

	cmd.AddCommand(newBackupsListCmd(opts))

	return cmd
}

func newBackupsListCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backup artifacts, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			artifacts, err := opts.Backups.List(ctx)
			if errors.Is(err, backup.ErrNoBackupDir) || (err == nil && len(artifacts) == 0) {
				opts.Console.Infof("No backups found in %s", opts.Backups.Dir())
				return nil
			}
			if err != nil {
				return err
			}

			for _, a := range artifacts {
				created := "unknown"
				if !a.Created.IsZero() {
					created = a.Created.Local().Format("2006-01-02 15:04:05")
				}
				opts.Console.Plainf("%s\t%s\t%d bytes\t%s", created, a.Original, a.Size, a.Name)
			}
			return nil
		},
	}
}
