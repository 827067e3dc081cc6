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

package opts

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/deemoji/pkg/backup"
	"github.com/walteh/deemoji/pkg/config"
	"github.com/walteh/deemoji/pkg/log"
	"github.com/walteh/deemoji/pkg/metrics"
	"github.com/walteh/deemoji/pkg/operation"
	"github.com/walteh/deemoji/pkg/promo"
	"github.com/walteh/deemoji/pkg/status"
	"github.com/walteh/deemoji/pkg/text"
	"github.com/walteh/deemoji/pkg/ui"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands. It is filled in
// before each command runs, so the config is read on every invocation.
type RootOpts struct {
	Config   *config.Config
	Console  *log.Logger
	Backups  *backup.Store
	Files    status.FileManager
	Prompter ui.Prompter
	Promo    promo.Options

	Stdin    io.Reader
	Stdout   io.Writer
	Progress io.Writer // progress bar destination, nil when not a terminal
}

// 🔧 OperatorOptions adjusts an operator for one command
type OperatorOptions struct {
	DryRun      bool
	Concurrency int // overrides the config when > 0
	Metrics     *metrics.Recorder
	Progress    bool
}

// 🏭 Operator builds an operator from the loaded config
func (o *RootOpts) Operator(ctx context.Context, oo OperatorOptions) (*operation.Operator, error) {
	files := status.New(zerolog.Ctx(ctx))
	if oo.Progress && o.Progress != nil {
		files = files.WithProgressBar(o.Progress)
	}

	concurrency := o.Config.Concurrency
	if oo.Concurrency > 0 {
		concurrency = oo.Concurrency
	}

	op, err := operation.New(operation.Options{
		Transformer:          o.Transformer(ctx),
		Files:                files,
		Backups:              o.Backups,
		Reporter:             o.Console.Reporter(files),
		Metrics:              oo.Metrics,
		BlockOnBackupFailure: o.Config.BlockOnBackupFailure,
		Concurrency:          concurrency,
		DryRun:               oo.DryRun,
	})
	if err != nil {
		return nil, errors.Errorf("creating operator: %w", err)
	}
	return op, nil
}

// Transformer builds the transformer selected by the config
func (o *RootOpts) Transformer(ctx context.Context) *text.Transformer {
	tr := text.New(ctx, o.Config.TextOptions())
	if res := tr.Resolution(); res.Rejected != nil {
		zerolog.Ctx(ctx).Debug().Err(res.Rejected).Msg("emojiRegex rejected, using the default pattern")
	}
	return tr
}

// ⭐ RequestStar prints the star request when it is enabled and not dismissed
func (o *RootOpts) RequestStar(ctx context.Context) {
	if !o.Config.ShowStarRequest {
		return
	}
	p, err := promo.New(o.Promo)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("creating promoter")
		return
	}
	if p.ShouldAsk(ctx, o.Config.ShowStarRequest) {
		o.Console.Info(promo.Message)
	}
}
