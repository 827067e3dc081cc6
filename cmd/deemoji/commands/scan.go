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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/deemoji/cmd/deemoji/opts"
	"github.com/walteh/deemoji/pkg/fileset"
	"github.com/walteh/deemoji/pkg/operation"
	"github.com/walteh/deemoji/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

// NewScanCmd creates the read-only report command
func NewScanCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [root...]",
		Short: "Report emojis without changing anything",
		Long: `Scan lists every emoji in the files a run would process, one per line as
path:line:column followed by the glyph and its shortcode.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			roots := args
			if len(roots) == 0 {
				roots = []string{"."}
			}

			files, err := fileset.Resolve(ctx, opts.Config.FilesetOptions(roots))
			if err != nil {
				return err
			}

			scanner := scan.New(opts.Transformer(ctx))

			total, withEmojis := 0, 0
			for _, file := range files {
				findings, err := scanner.ScanFile(ctx, file)
				if err != nil {
					if errors.Is(err, operation.ErrNotText) {
						continue
					}
					logger.Warn().Err(err).Str("file", file).Msg("scanning file")
					continue
				}
				if len(findings) == 0 {
					continue
				}

				withEmojis++
				for _, f := range findings {
					total++
					name := f.Name
					if name == "" {
						name = "-"
					}
					opts.Console.Plainf("%s:%d:%d\t%s\t%s", f.Path, f.Line, f.Column, f.Glyph, name)
				}
			}

			if total == 0 {
				opts.Console.Successf("No emojis found in %d files", len(files))
				return nil
			}
			opts.Console.Infof("Found %d emojis in %d of %d files", total, withEmojis, len(files))
			return nil
		},
	}

	return cmd
}
