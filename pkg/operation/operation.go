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
	"bytes"
	"context"
	"unicode/utf8"

	"github.com/walteh/deemoji/pkg/metrics"
	"github.com/walteh/deemoji/pkg/status"
	"github.com/walteh/deemoji/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrNoEmojis       = errors.Base("no emojis found")
	ErrEmptySelection = errors.Base("no lines selected")
	ErrNotText        = errors.Base("not a UTF-8 text file")
)

// 💾 Backuper persists the original content of a target before it is overwritten
type Backuper interface {
	Backup(ctx context.Context, target string, content []byte) (string, error)
}

// 🔧 Options contains the collaborators of an Operator
type Options struct {
	// Transformer cleans content, required
	Transformer *text.Transformer
	// Files reads and writes targets, required
	Files status.FileManager
	// Backups stores original content, required
	Backups Backuper
	// Reporter receives progress; defaults to Files when it implements
	// status.StatusReporter, otherwise progress is dropped
	Reporter status.StatusReporter
	// Metrics records batch counters, optional
	Metrics *metrics.Recorder

	BlockOnBackupFailure bool // leave a file untouched when its backup fails
	Concurrency          int  // files processed at once by Run, 1 when unset
	DryRun               bool // report what would change without writing
}

// 🎮 Operator runs document, selection and batch operations
type Operator struct {
	transformer *text.Transformer
	files       status.FileManager
	backups     Backuper
	reporter    status.StatusReporter
	metrics     *metrics.Recorder

	blockOnBackupFailure bool
	concurrency          int
	dryRun               bool
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (*Operator, error) {
	if opts.Transformer == nil {
		return nil, errors.Errorf("transformer is required")
	}
	if opts.Files == nil {
		return nil, errors.Errorf("file manager is required")
	}
	if opts.Backups == nil {
		return nil, errors.Errorf("backup store is required")
	}

	reporter := opts.Reporter
	if reporter == nil {
		if r, ok := opts.Files.(status.StatusReporter); ok {
			reporter = r
		} else {
			reporter = nopReporter{}
		}
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Operator{
		transformer:          opts.Transformer,
		files:                opts.Files,
		backups:              opts.Backups,
		reporter:             reporter,
		metrics:              opts.Metrics,
		blockOnBackupFailure: opts.BlockOnBackupFailure,
		concurrency:          concurrency,
		dryRun:               opts.DryRun,
	}, nil
}

// IsText reports whether content looks like UTF-8 text: valid encoding and no
// NUL byte within the first 8000 bytes.
func IsText(content []byte) bool {
	head := content
	if len(head) > 8000 {
		head = head[:8000]
	}
	return bytes.IndexByte(head, 0) < 0 && utf8.Valid(content)
}

type nopReporter struct{}

func (nopReporter) StartOperation(context.Context, int) {}
func (nopReporter) UpdateProgress(context.Context, int, string) {}
func (nopReporter) TrackFile(context.Context, string, status.FileState, int, error) {}
func (nopReporter) FinishOperation(context.Context) {}
