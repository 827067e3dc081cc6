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

package operation

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/deemoji/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📊 Summary aggregates the outcome of a batch run
type Summary struct {
	Total    int // files in the file set
	Modified int // files rewritten
	Backups  int // backups created
	Pending  int // files that would change (dry run)
	Skipped  int // files that are not text
	Failed   int // files that could not be read, backed up or written
	Removed  int // emoji matches removed, or found during a dry run
}

// fileOutcome is the result of processing one file
type fileOutcome struct {
	state    status.FileState
	removed  int
	backedUp bool
	err      error
}

func (s *Summary) add(o fileOutcome) {
	if o.backedUp {
		s.Backups++
	}
	switch o.state {
	case status.StateCleaned:
		s.Modified++
		s.Removed += o.removed
	case status.StatePreview:
		s.Pending++
		s.Removed += o.removed
	case status.StateSkipped:
		s.Skipped++
	case status.StateFailed:
		s.Failed++
	}
}

// 🏃 Run cleans every file in order. Per file failures are counted and the run
// continues; only a cancelled context stops it early.
func (o *Operator) Run(ctx context.Context, files []string) (*Summary, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("files", len(files)).Int("concurrency", o.concurrency).Bool("dry_run", o.dryRun).Msg("starting batch run")

	summary := &Summary{Total: len(files)}

	o.reporter.StartOperation(ctx, len(files))
	defer o.reporter.FinishOperation(ctx)

	var (
		mu        sync.Mutex
		processed int
		g         errgroup.Group
	)
	g.SetLimit(o.concurrency)

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcome := o.processFile(ctx, file)

			mu.Lock()
			summary.add(outcome)
			processed++
			n := processed
			mu.Unlock()

			o.reporter.TrackFile(ctx, file, outcome.state, outcome.removed, outcome.err)
			o.reporter.UpdateProgress(ctx, n, file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, errors.Errorf("running batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return summary, errors.Errorf("batch run interrupted: %w", err)
	}

	logger.Debug().
		Int("total", summary.Total).
		Int("modified", summary.Modified).
		Int("backups", summary.Backups).
		Int("failed", summary.Failed).
		Msg("batch run complete")

	return summary, nil
}

// 📄 processFile cleans a single file, backing it up before the write
func (o *Operator) processFile(ctx context.Context, file string) fileOutcome {
	outcome := o.cleanFile(ctx, file)
	o.metrics.ObserveFile(outcome.state.String())
	if outcome.state == status.StateCleaned {
		o.metrics.ObserveRemoved(outcome.removed)
	}
	return outcome
}

func (o *Operator) cleanFile(ctx context.Context, file string) fileOutcome {
	logger := zerolog.Ctx(ctx).With().Str("file", file).Logger()

	content, err := o.files.ReadFile(ctx, file)
	if err != nil {
		return fileOutcome{state: status.StateFailed, err: err}
	}
	if !IsText(content) {
		logger.Trace().Msg("skipping non text file")
		return fileOutcome{state: status.StateSkipped}
	}

	res := o.transformer.Transform(string(content))
	if !res.Changed() {
		return fileOutcome{state: status.StateUnchanged}
	}
	if o.dryRun {
		return fileOutcome{state: status.StatePreview, removed: res.Removed}
	}

	outcome := fileOutcome{removed: res.Removed}

	location, err := o.backups.Backup(ctx, file, content)
	o.metrics.ObserveBackup(err)
	if err != nil {
		if o.blockOnBackupFailure {
			return fileOutcome{state: status.StateFailed, err: errors.Errorf("backing up: %w", err)}
		}
		logger.Warn().Err(err).Msg("backup failed, writing anyway")
	} else {
		outcome.backedUp = true
		logger.Debug().Str("backup", location).Msg("backed up original")
	}

	if err := o.files.WriteFile(ctx, file, []byte(res.Cleaned)); err != nil {
		outcome.state = status.StateFailed
		outcome.err = errors.Errorf("writing cleaned content: %w", err)
		return outcome
	}

	outcome.state = status.StateCleaned
	return outcome
}
