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
	"github.com/walteh/deemoji/pkg/promo"
)

// NewStarCmd creates the command behind the star request
func NewStarCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		dismiss bool
		noOpen  bool
	)

	cmd := &cobra.Command{
		Use:   "star",
		Short: "Star deemoji on GitHub",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := promo.New(opts.Promo)
			if err != nil {
				return err
			}

			if dismiss {
				if err := p.Dismiss(ctx); err != nil {
					return err
				}
				opts.Console.Success("The star request will not be shown again")
				return nil
			}

			url := promo.RepoURL
			info, err := p.Lookup(ctx)
			if err != nil {
				opts.Console.Warningf("Could not reach GitHub: %v", err)
			} else {
				url = info.HTMLURL
				opts.Console.Infof("%s has %d stars", info.FullName, info.Stargazers)
			}

			if noOpen {
				opts.Console.Plain(url)
				return nil
			}
			if err := p.Open(ctx, url); err != nil {
				opts.Console.Warningf("Could not open a browser, visit %s", url)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dismiss, "dismiss", false, "stop showing the star request")
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "print the repository URL instead of opening it")

	return cmd
}
