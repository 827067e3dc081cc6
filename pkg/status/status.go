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

package status

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileState is the outcome of processing one file
type FileState int

const (
	StateUnknown   FileState = iota
	StateUnchanged           // no emoji found
	StateCleaned             // emoji removed and file rewritten
	StatePreview             // emoji found, nothing written (dry run)
	StateSkipped             // not text, left alone
	StateFailed              // could not be read, backed up or written
)

// String returns a string representation of FileState
func (s FileState) String() string {
	switch s {
	case StateUnchanged:
		return "unchanged"
	case StateCleaned:
		return "cleaned"
	case StatePreview:
		return "preview"
	case StateSkipped:
		return "skipped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 💾 FileManager is the raw file I/O used by every operation
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, content []byte) error
	FileExists(ctx context.Context, path string) (bool, error)
	CreateDir(ctx context.Context, path string) error
	ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error)
}

// 📈 StatusReporter receives progress of a long running operation
type StatusReporter interface {
	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int, path string)
	TrackFile(ctx context.Context, path string, state FileState, removed int, err error)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	logger    *zerolog.Logger
	formatter FileFormatter
	barOut    io.Writer // progress bar destination, nil disables the bar

	mu        sync.Mutex
	bar       *pterm.ProgressbarPrinter
	total     int
	processed int
	states    map[FileState]int
}

// 🏭 New creates a new status manager
func New(logger *zerolog.Logger) *Manager {
	return &Manager{
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		states:    make(map[FileState]int),
	}
}

// WithProgressBar draws a progress bar on w while an operation runs
func (m *Manager) WithProgressBar(w io.Writer) *Manager {
	m.barOut = w
	return m
}

// WithFormatter replaces the message formatter
func (m *Manager) WithFormatter(f FileFormatter) *Manager {
	m.formatter = f
	return m
}

// FileManager interface implementation

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFile replaces path atomically, keeping the mode of an existing file.
// A symlinked path is written through, replacing the file it points to.
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) error {
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, target); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	if target != path {
		m.logger.Debug().Str("file", path).Str("target", target).Msg("wrote through symlink")
	}

	return nil
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

func (m *Manager) CreateDir(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

func (m *Manager) ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Errorf("reading directory: %w", err)
	}
	return entries, nil
}

// StatusReporter interface implementation

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.states = make(map[FileState]int)

	if m.barOut != nil && total > 0 {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle("Removing emojis").
			WithWriter(m.barOut).
			Start()
		if err != nil {
			m.logger.Debug().Err(err).Msg("starting progress bar")
		} else {
			m.bar = bar
		}
	}

	m.logger.Debug().Int("total", total).Msg(m.formatter.FormatProgress(0, total, ""))
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	msg := m.formatter.FormatProgress(processed, m.total, path)
	if m.bar != nil {
		m.bar.UpdateTitle(msg)
		m.bar.Increment()
	}
	m.logger.Debug().
		Int("processed", processed).
		Int("total", m.total).
		Str("file", path).
		Msg(msg)
}

func (m *Manager) TrackFile(ctx context.Context, path string, state FileState, removed int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[state]++

	event := m.logger.Info()
	msg := m.formatter.FormatFileOperation(path, state, removed)
	switch {
	case err != nil:
		event = m.logger.Warn().Err(err)
		msg = m.formatter.FormatError(path, err)
	case state == StateUnchanged || state == StateSkipped:
		event = m.logger.Debug()
	}

	event.Str("file", path).Str("state", state.String()).Int("removed", removed).Msg(msg)
}

// Count returns how many tracked files ended in state during the current operation
func (m *Manager) Count(state FileState) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[state]
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bar != nil {
		if _, err := m.bar.Stop(); err != nil {
			m.logger.Debug().Err(err).Msg("stopping progress bar")
		}
		m.bar = nil
	}

	m.logger.Debug().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total, ""))
}
