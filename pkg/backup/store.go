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

package backup

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/deemoji/pkg/status"
	"gitlab.com/tozd/go/errors"
)

const (
	// DirName is the name of the shared backup directory under the temp dir
	DirName = "deemoji-backups"
	// Extension is appended to every artifact name
	Extension = ".backup"

	timestampLayout = "2006-01-02T15:04:05.000Z"
)

var (
	ErrNoBackupDir = errors.Base("no backup directory exists yet")
	ErrInvalidName = errors.Base("invalid backup artifact name")
	ErrUnknownName = errors.Base("not a backup artifact name")
	ErrNotFound    = errors.Base("no backup found")
)

// DefaultDir returns the backup directory used when none is configured
func DefaultDir() string {
	return filepath.Join(os.TempDir(), DirName)
}

// 📄 Artifact describes one stored backup
type Artifact struct {
	Name     string    // file name inside the backup directory
	Original string    // base name of the file that was backed up
	Created  time.Time // parsed from the name prefix, zero when unparseable
	Size     int64
}

// 💾 Store persists pre-transformation content under timestamped names.
// It exclusively owns the contents and naming scheme of its directory.
type Store struct {
	dir   string
	files status.FileManager
	now   func() time.Time
}

// 🏭 New creates a store rooted at dir that does its I/O through files.
// An empty dir selects DefaultDir.
func New(dir string, files status.FileManager) *Store {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Store{
		dir:   filepath.Clean(dir),
		files: files,
		now:   time.Now,
	}
}

// Dir returns the backup directory
func (s *Store) Dir() string {
	return s.dir
}

// Exists reports whether the backup directory has been created
func (s *Store) Exists(ctx context.Context) bool {
	ok, err := s.files.FileExists(ctx, s.dir)
	return err == nil && ok
}

// Timestamp formats t the way artifact names are prefixed
func Timestamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format(timestampLayout))
}

// ArtifactName builds the artifact name for target at time t
func ArtifactName(t time.Time, target string) string {
	return Timestamp(t) + "_" + filepath.Base(target) + Extension
}

// ParseName splits an artifact name into its creation time and original base name
func ParseName(name string) (time.Time, string, error) {
	prefix, original, ok := strings.Cut(strings.TrimSuffix(name, Extension), "_")
	if !ok || !strings.HasSuffix(name, Extension) {
		return time.Time{}, "", errors.Errorf("%w: %s", ErrUnknownName, name)
	}

	// 2026-10-16T09-41-07-512Z
	if len(prefix) != 24 || prefix[len(prefix)-1] != 'Z' {
		return time.Time{}, original, errors.Errorf("%w: %s", ErrUnknownName, name)
	}
	created, err := time.Parse("2006-01-02T15-04-05", prefix[:19])
	if err != nil {
		return time.Time{}, original, errors.Errorf("parsing timestamp of %q: %w", name, err)
	}
	millis, err := strconv.Atoi(prefix[20:23])
	if err != nil {
		return time.Time{}, original, errors.Errorf("parsing milliseconds of %q: %w", name, err)
	}

	return created.Add(time.Duration(millis) * time.Millisecond), original, nil
}

// 📝 Backup writes content to a new artifact named after target and returns its path.
// Failures are returned to the caller, which decides whether to continue.
func (s *Store) Backup(ctx context.Context, target string, content []byte) (string, error) {
	if err := s.files.CreateDir(ctx, s.dir); err != nil {
		return "", errors.Errorf("creating backup directory: %w", err)
	}

	full := filepath.Join(s.dir, ArtifactName(s.now(), target))
	if err := s.files.WriteFile(ctx, full, content); err != nil {
		return "", errors.Errorf("writing backup: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("target", target).
		Str("backup", full).
		Int("bytes", len(content)).
		Msg("backup created")

	return full, nil
}

// 📋 List returns every artifact in the backup directory, oldest first
func (s *Store) List(ctx context.Context) ([]Artifact, error) {
	entries, err := s.files.ReadDir(ctx, s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WithStack(ErrNoBackupDir)
		}
		return nil, errors.Errorf("reading backup directory: %w", err)
	}

	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}

		created, original, err := ParseName(entry.Name())
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("name", entry.Name()).Msg("unrecognised backup name")
		}

		art := Artifact{Name: entry.Name(), Original: original, Created: created}
		if info, err := entry.Info(); err == nil {
			art.Size = info.Size()
		}
		artifacts = append(artifacts, art)
	}

	// the fixed width timestamp prefix makes lexical order chronological
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Name < artifacts[j].Name
	})

	return artifacts, nil
}

// 📖 Read returns the content of the named artifact
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return nil, errors.Errorf("%w: %q", ErrInvalidName, name)
	}

	content, err := s.files.ReadFile(ctx, filepath.Join(s.dir, name))
	if err != nil {
		return nil, errors.Errorf("reading backup %s: %w", name, err)
	}
	return content, nil
}

// 🔍 Latest returns the newest artifact created for target's base name
func (s *Store) Latest(ctx context.Context, target string) (Artifact, error) {
	artifacts, err := s.List(ctx)
	if err != nil {
		return Artifact{}, err
	}

	base := filepath.Base(target)
	for i := len(artifacts) - 1; i >= 0; i-- {
		if artifacts[i].Original == base {
			return artifacts[i], nil
		}
	}

	return Artifact{}, errors.Errorf("%w for %s", ErrNotFound, base)
}
