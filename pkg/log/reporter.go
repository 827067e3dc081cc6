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

package log

import (
	"context"

	"github.com/walteh/deemoji/pkg/status"
)

// 📡 Reporter forwards progress to next and prints every file that was not
// left unchanged.
func (l *Logger) Reporter(next status.StatusReporter) status.StatusReporter {
	return &reporter{logger: l, next: next}
}

type reporter struct {
	logger *Logger
	next   status.StatusReporter
}

func (r *reporter) StartOperation(ctx context.Context, total int) {
	r.next.StartOperation(ctx, total)
}

func (r *reporter) UpdateProgress(ctx context.Context, processed int, path string) {
	r.next.UpdateProgress(ctx, processed, path)
}

func (r *reporter) TrackFile(ctx context.Context, path string, state status.FileState, removed int, err error) {
	r.next.TrackFile(ctx, path, state, removed, err)
	if state == status.StateUnchanged {
		return
	}
	r.logger.LogFileOperation(ctx, FileOperation{Path: path, State: state, Removed: removed, Err: err})
}

func (r *reporter) FinishOperation(ctx context.Context) {
	r.next.FinishOperation(ctx)
}
