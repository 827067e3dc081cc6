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

package operation_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/deemoji/pkg/backup"
	"github.com/walteh/deemoji/pkg/metrics"
	"github.com/walteh/deemoji/pkg/operation"
	"github.com/walteh/deemoji/pkg/status"
	"github.com/walteh/deemoji/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockBackuper is a mock implementation of operation.Backuper
type MockBackuper struct {
	mock.Mock
}

func (m *MockBackuper) Backup(ctx context.Context, target string, content []byte) (string, error) {
	result := m.Called(ctx, target, content)
	return result.String(0), result.Error(1)
}

type testEnv struct {
	ctx     context.Context
	dir     string
	mgr     *status.Manager
	store   *backup.Store
	metrics *metrics.Recorder
}

// 🧪 createTestEnv creates a test environment
func createTestEnv(t *testing.T) *testEnv {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	dir := t.TempDir()
	mgr := status.New(&logger)
	return &testEnv{
		ctx:     logger.WithContext(context.Background()),
		dir:     dir,
		mgr:     mgr,
		store:   backup.New(filepath.Join(dir, "backups"), mgr),
		metrics: metrics.New(),
	}
}

func (e *testEnv) operator(t *testing.T, mutate func(*operation.Options)) *operation.Operator {
	opts := operation.Options{
		Transformer: text.New(e.ctx, text.Options{JoinSequences: true}),
		Files:       e.mgr,
		Backups:     e.store,
		Metrics:     e.metrics,
	}
	if mutate != nil {
		mutate(&opts)
	}
	op, err := operation.New(opts)
	require.NoError(t, err)
	return op
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	path := filepath.Join(e.dir, "work", name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func read(t *testing.T, path string) string {
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestNewValidation(t *testing.T) {
	env := createTestEnv(t)
	tr := text.New(env.ctx, text.Options{})

	tests := []struct {
		name        string
		opts        operation.Options
		errContains string
	}{
		{name: "missing_transformer", opts: operation.Options{Files: env.mgr, Backups: env.store}, errContains: "transformer is required"},
		{name: "missing_files", opts: operation.Options{Transformer: tr, Backups: env.store}, errContains: "file manager is required"},
		{name: "missing_backups", opts: operation.Options{Transformer: tr, Files: env.mgr}, errContains: "backup store is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := operation.New(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestRun(t *testing.T) {
	env := createTestEnv(t)

	files := []string{
		env.write(t, "a.md", "plain text\n"),
		env.write(t, "b.md", "Hello \U00002764\U0000FE0F World \U0001F604 Test \U0001F48E\n"),
		env.write(t, "c.md", "nothing to see  here \n"),
	}

	summary, err := env.operator(t, nil).Run(env.ctx, files)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total, "total should match")
	assert.Equal(t, 1, summary.Modified, "only one file should be modified")
	assert.Equal(t, 1, summary.Backups, "only one backup should be created")
	assert.Equal(t, 3, summary.Removed)
	assert.Zero(t, summary.Failed)

	assert.Equal(t, "plain text\n", read(t, files[0]))
	assert.Equal(t, "Hello World Test\n", read(t, files[1]))
	assert.Equal(t, "nothing to see  here \n", read(t, files[2]), "unchanged files keep their whitespace")

	latest, err := env.store.Latest(env.ctx, files[1])
	require.NoError(t, err)
	original, err := env.store.Read(env.ctx, latest.Name)
	require.NoError(t, err)
	assert.Equal(t, "Hello \U00002764\U0000FE0F World \U0001F604 Test \U0001F48E\n", string(original), "backup holds the original")

	assert.Equal(t, 1, env.mgr.Count(status.StateCleaned))
	assert.Equal(t, 2, env.mgr.Count(status.StateUnchanged))
}

func TestRunSkipsAndFailures(t *testing.T) {
	env := createTestEnv(t)

	files := []string{
		filepath.Join(env.dir, "work", "missing.txt"),
		env.write(t, "binary.bin", "PNG\x00\x01\x02 \U0001F600"),
		env.write(t, "latin1.txt", "caf\xe9 \U0001F600"),
		env.write(t, "good.txt", "ok \U0001F600\n"),
	}

	summary, err := env.operator(t, nil).Run(env.ctx, files)
	require.NoError(t, err, "per file failures do not fail the run")

	assert.Equal(t, operation.Summary{Total: 4, Modified: 1, Backups: 1, Skipped: 2, Failed: 1, Removed: 1}, *summary)
	assert.Equal(t, "ok\n", read(t, files[3]))
	assert.Equal(t, "PNG\x00\x01\x02 \U0001F600", read(t, files[1]), "binary files are never rewritten")

	expected := `
# HELP deemoji_files_total Total number of files processed, by result.
# TYPE deemoji_files_total counter
deemoji_files_total{result="cleaned"} 1
deemoji_files_total{result="failed"} 1
deemoji_files_total{result="skipped"} 2
`
	require.NoError(t, testutil.GatherAndCompare(env.metrics.Gatherer(), strings.NewReader(expected), "deemoji_files_total"))
}

func TestRunDryRun(t *testing.T) {
	env := createTestEnv(t)

	content := "launch \U0001F680 day \U0001F389\n"
	path := env.write(t, "notes.md", content)

	summary, err := env.operator(t, func(o *operation.Options) { o.DryRun = true }).Run(env.ctx, []string{path})
	require.NoError(t, err)

	assert.Equal(t, operation.Summary{Total: 1, Pending: 1, Removed: 2}, *summary)
	assert.Equal(t, content, read(t, path), "dry run must not write")

	_, err = env.store.List(env.ctx)
	assert.ErrorIs(t, err, backup.ErrNoBackupDir, "dry run must not back up")
	assert.Equal(t, 1, env.mgr.Count(status.StatePreview))
}

func TestRunBackupFailure(t *testing.T) {
	tests := []struct {
		name        string
		block       bool
		wantContent string
		wantSummary operation.Summary
	}{
		{
			name:        "write_anyway",
			block:       false,
			wantContent: "a b\n",
			wantSummary: operation.Summary{Total: 1, Modified: 1, Removed: 1},
		},
		{
			name:        "block",
			block:       true,
			wantContent: "a \U0001F600 b\n",
			wantSummary: operation.Summary{Total: 1, Failed: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := createTestEnv(t)
			path := env.write(t, "f.txt", "a \U0001F600 b\n")

			backups := new(MockBackuper)
			backups.On("Backup", mock.Anything, path, []byte("a \U0001F600 b\n")).Return("", errors.New("disk full"))

			op := env.operator(t, func(o *operation.Options) {
				o.Backups = backups
				o.BlockOnBackupFailure = tt.block
			})

			summary, err := op.Run(env.ctx, []string{path})
			require.NoError(t, err)

			assert.Equal(t, tt.wantSummary, *summary)
			assert.Equal(t, tt.wantContent, read(t, path))
			backups.AssertExpectations(t)
		})
	}
}

func TestRunConcurrent(t *testing.T) {
	env := createTestEnv(t)

	var files []string
	for i := range 12 {
		content := "line without glyphs\n"
		if i%3 == 0 {
			content = "tagged \U0001F3F7\U0000FE0F line\n"
		}
		files = append(files, env.write(t, filepath.Join("dir", string(rune('a'+i))+".txt"), content))
	}

	summary, err := env.operator(t, func(o *operation.Options) { o.Concurrency = 4 }).Run(env.ctx, files)
	require.NoError(t, err)

	assert.Equal(t, operation.Summary{Total: 12, Modified: 4, Backups: 4, Removed: 4}, *summary)
	for i, f := range files {
		if i%3 == 0 {
			assert.Equal(t, "tagged line\n", read(t, f))
		}
	}
}

func TestRunWritesThroughSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	env := createTestEnv(t)

	realPath := filepath.Join(env.dir, "outside", "real.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(realPath), 0o755))
	require.NoError(t, os.WriteFile(realPath, []byte("hi \U0001F600 there\n"), 0o644))

	link := filepath.Join(env.dir, "work", "link.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(link), 0o755))
	require.NoError(t, os.Symlink(realPath, link))

	summary, err := env.operator(t, nil).Run(env.ctx, []string{link})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Modified)

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "the link should survive the rewrite")
	assert.Equal(t, "hi there\n", read(t, realPath), "the linked file should be cleaned")
	assert.Equal(t, "hi there\n", read(t, link))

	latest, err := env.store.Latest(env.ctx, link)
	require.NoError(t, err)
	original, err := env.store.Read(env.ctx, latest.Name)
	require.NoError(t, err)
	assert.Equal(t, "hi \U0001F600 there\n", string(original))
}

func TestRunCancelled(t *testing.T) {
	env := createTestEnv(t)
	path := env.write(t, "f.txt", "x \U0001F600\n")

	ctx, cancel := context.WithCancel(env.ctx)
	cancel()

	_, err := env.operator(t, nil).Run(ctx, []string{path})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "x \U0001F600\n", read(t, path))
}

func TestCleanDocument(t *testing.T) {
	t.Run("cleans_and_backs_up", func(t *testing.T) {
		env := createTestEnv(t)
		path := env.write(t, "doc.md", "# Title \U00002728\n\nBody\U0001F44D text\n")

		res, err := env.operator(t, nil).CleanDocument(env.ctx, path)
		require.NoError(t, err)

		assert.Equal(t, 2, res.Removed)
		assert.NotEmpty(t, res.Backup)
		assert.Equal(t, "# Title\n\nBody text\n", read(t, path))

		original, err := os.ReadFile(res.Backup)
		require.NoError(t, err)
		assert.Equal(t, "# Title \U00002728\n\nBody\U0001F44D text\n", string(original))
	})

	t.Run("no_emojis", func(t *testing.T) {
		env := createTestEnv(t)
		path := env.write(t, "doc.md", "plain  text \n")

		backups := new(MockBackuper)
		_, err := env.operator(t, func(o *operation.Options) { o.Backups = backups }).CleanDocument(env.ctx, path)

		require.Error(t, err)
		assert.ErrorIs(t, err, operation.ErrNoEmojis)
		assert.Equal(t, "plain  text \n", read(t, path), "file must not be written")
		backups.AssertNotCalled(t, "Backup", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not_text", func(t *testing.T) {
		env := createTestEnv(t)
		path := env.write(t, "blob.bin", "\x00\x01\U0001F600")

		_, err := env.operator(t, nil).CleanDocument(env.ctx, path)
		assert.ErrorIs(t, err, operation.ErrNotText)
	})

	t.Run("blocked_by_backup_failure", func(t *testing.T) {
		env := createTestEnv(t)
		path := env.write(t, "doc.md", "hi \U0001F600\n")

		backups := new(MockBackuper)
		backups.On("Backup", mock.Anything, path, mock.Anything).Return("", errors.New("read only"))

		_, err := env.operator(t, func(o *operation.Options) {
			o.Backups = backups
			o.BlockOnBackupFailure = true
		}).CleanDocument(env.ctx, path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "read only")
		assert.Equal(t, "hi \U0001F600\n", read(t, path))
	})
}

func TestParseLineRange(t *testing.T) {
	tests := []struct {
		input   string
		want    operation.LineRange
		wantErr bool
	}{
		{input: "3", want: operation.LineRange{Start: 3, End: 3}},
		{input: "2-5", want: operation.LineRange{Start: 2, End: 5}},
		{input: " 4 - 6 ", want: operation.LineRange{Start: 4, End: 6}},
		{input: "0", wantErr: true},
		{input: "5-2", wantErr: true},
		{input: "3-", wantErr: true},
		{input: "-3", wantErr: true},
		{input: "a-b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := operation.ParseLineRange(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.ReplaceAll(strings.TrimSpace(tt.input), " ", ""), got.String())
		})
	}
}

func TestCleanSelection(t *testing.T) {
	const doc = "one \U0001F600\ntwo \U0001F600\nthree \U0001F600\nfour \U0001F600"

	tests := []struct {
		name        string
		ranges      []operation.LineRange
		want        string
		wantRemoved int
		wantErr     error
		errContains string
	}{
		{
			name:        "single_line",
			ranges:      []operation.LineRange{{Start: 2, End: 2}},
			want:        "one \U0001F600\ntwo\nthree \U0001F600\nfour \U0001F600",
			wantRemoved: 1,
		},
		{
			name:        "unordered_ranges",
			ranges:      []operation.LineRange{{Start: 4, End: 4}, {Start: 1, End: 2}},
			want:        "one\ntwo\nthree \U0001F600\nfour",
			wantRemoved: 3,
		},
		{
			name:    "empty",
			wantErr: operation.ErrEmptySelection,
		},
		{
			name:        "out_of_bounds",
			ranges:      []operation.LineRange{{Start: 3, End: 5}},
			errContains: "outside of",
		},
		{
			name:        "overlap",
			ranges:      []operation.LineRange{{Start: 1, End: 2}, {Start: 2, End: 3}},
			errContains: "overlap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := createTestEnv(t)
			path := env.write(t, "sel.txt", doc)

			res, err := env.operator(t, nil).CleanSelection(env.ctx, path, tt.ranges)
			if tt.wantErr != nil || tt.errContains != "" {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Equal(t, doc, read(t, path))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRemoved, res.Removed)
			assert.Equal(t, tt.want, read(t, path))

			original, err := os.ReadFile(res.Backup)
			require.NoError(t, err)
			assert.Equal(t, doc, string(original), "backup holds the whole document")
		})
	}
}

func TestCleanSelectionWithoutEmojis(t *testing.T) {
	env := createTestEnv(t)
	path := env.write(t, "sel.txt", "clean\nhas \U0001F600\n")

	_, err := env.operator(t, nil).CleanSelection(env.ctx, path, []operation.LineRange{{Start: 1, End: 1}})
	assert.ErrorIs(t, err, operation.ErrNoEmojis)
	assert.Equal(t, "clean\nhas \U0001F600\n", read(t, path))
}

func TestCleanStream(t *testing.T) {
	env := createTestEnv(t)
	op := env.operator(t, nil)

	var out bytes.Buffer
	removed, err := op.CleanStream(env.ctx, strings.NewReader("pipe \U0001F6B0 me\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, "pipe me\n", out.String())

	out.Reset()
	_, err = op.CleanStream(env.ctx, bytes.NewReader([]byte{0xff, 0xfe}), &out)
	assert.ErrorIs(t, err, operation.ErrNotText)
	assert.Empty(t, out.String())
}

func TestIsText(t *testing.T) {
	assert.True(t, operation.IsText([]byte("hello \U0001F600")))
	assert.True(t, operation.IsText(nil))
	assert.False(t, operation.IsText([]byte("a\x00b")))
	assert.False(t, operation.IsText([]byte{0xc3}))
}
