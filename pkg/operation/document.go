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
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 DocumentResult describes a cleaned document
type DocumentResult struct {
	Path    string
	Backup  string // backup location, empty when the backup failed
	Removed int
}

// 🧹 CleanDocument removes emojis from the whole file at path.
// A file without matches yields ErrNoEmojis and is neither backed up nor written.
func (o *Operator) CleanDocument(ctx context.Context, path string) (*DocumentResult, error) {
	content, err := o.readText(ctx, path)
	if err != nil {
		return nil, err
	}

	res := o.transformer.Transform(content)
	if !res.Changed() {
		return nil, errors.WithStack(ErrNoEmojis)
	}

	return o.commit(ctx, path, []byte(content), res.Cleaned, res.Removed)
}

// 📏 LineRange is an inclusive, 1-based range of lines
type LineRange struct {
	Start int
	End   int
}

// String returns the range in the form accepted by ParseLineRange
func (r LineRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}

// ParseLineRange parses "N" or "N-M"
func ParseLineRange(s string) (LineRange, error) {
	startStr, endStr, isRange := strings.Cut(strings.TrimSpace(s), "-")
	if !isRange {
		endStr = startStr
	}

	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return LineRange{}, errors.Errorf("invalid line range %q: %w", s, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil {
		return LineRange{}, errors.Errorf("invalid line range %q: %w", s, err)
	}
	if start < 1 || end < start {
		return LineRange{}, errors.Errorf("invalid line range %q: lines are numbered from 1 and the end may not precede the start", s)
	}

	return LineRange{Start: start, End: end}, nil
}

// ✂️ CleanSelection removes emojis from the given line ranges of the file at path,
// leaving every other line untouched. Each range is cleaned on its own. The
// backup holds the whole original document.
func (o *Operator) CleanSelection(ctx context.Context, path string, ranges []LineRange) (*DocumentResult, error) {
	if len(ranges) == 0 {
		return nil, errors.WithStack(ErrEmptySelection)
	}

	content, err := o.readText(ctx, path)
	if err != nil {
		return nil, err
	}

	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	sorted := append([]LineRange(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i, r := range sorted {
		if r.End > len(lines) {
			return nil, errors.Errorf("line range %s is outside of %s (%d lines)", r, path, len(lines))
		}
		if i > 0 && r.Start <= sorted[i-1].End {
			return nil, errors.Errorf("line ranges %s and %s overlap", sorted[i-1], r)
		}
	}

	var (
		b       strings.Builder
		removed int
		next    = 1
	)
	for _, r := range sorted {
		b.WriteString(strings.Join(lines[next-1:r.Start-1], ""))

		res := o.transformer.Transform(strings.Join(lines[r.Start-1:r.End], ""))
		b.WriteString(res.Cleaned)
		removed += res.Removed

		next = r.End + 1
	}
	b.WriteString(strings.Join(lines[next-1:], ""))

	cleaned := b.String()
	if cleaned == content {
		return nil, errors.WithStack(ErrNoEmojis)
	}

	return o.commit(ctx, path, []byte(content), cleaned, removed)
}

// 🚰 CleanStream copies r to w with emojis removed; nothing is backed up.
func (o *Operator) CleanStream(ctx context.Context, r io.Reader, w io.Writer) (int, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, errors.Errorf("reading input: %w", err)
	}
	if !IsText(content) {
		return 0, errors.WithStack(ErrNotText)
	}

	res := o.transformer.Transform(string(content))
	if _, err := io.WriteString(w, res.Cleaned); err != nil {
		return 0, errors.Errorf("writing output: %w", err)
	}

	return res.Removed, nil
}

// readText reads path and rejects content that is not UTF-8 text
func (o *Operator) readText(ctx context.Context, path string) (string, error) {
	content, err := o.files.ReadFile(ctx, path)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}
	if !IsText(content) {
		return "", errors.Errorf("%s: %w", path, ErrNotText)
	}
	return string(content), nil
}

// commit backs up original and writes cleaned to path
func (o *Operator) commit(ctx context.Context, path string, original []byte, cleaned string, removed int) (*DocumentResult, error) {
	logger := zerolog.Ctx(ctx)
	result := &DocumentResult{Path: path, Removed: removed}

	if o.dryRun {
		return result, nil
	}

	location, err := o.backups.Backup(ctx, path, original)
	if err != nil {
		if o.blockOnBackupFailure {
			return nil, errors.Errorf("backing up %s: %w", path, err)
		}
		logger.Warn().Err(err).Str("file", path).Msg("backup failed, writing anyway")
	}
	result.Backup = location

	if err := o.files.WriteFile(ctx, path, []byte(cleaned)); err != nil {
		return nil, errors.Errorf("writing %s: %w", path, err)
	}

	logger.Debug().Str("file", path).Str("backup", location).Int("removed", removed).Msg("document cleaned")
	return result, nil
}
