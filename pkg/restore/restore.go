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

// Package restore lists backup artifacts and writes one of them back to disk.
package restore

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/deemoji/pkg/backup"
	"github.com/walteh/deemoji/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var ErrNoBackups = errors.Base("no backups found")

var timestampPrefix = regexp.MustCompile(`^[^_]+_`)

// 🗂️ Entry is one restorable artifact
type Entry struct {
	DisplayName string    // artifact file name as shown to the user
	Artifact    string    // full path of the artifact
	Suggested   string    // file name proposed for the restored copy
	Created     time.Time // zero when the name carries no timestamp
}

// 🔄 Flow restores artifacts from a backup store
type Flow struct {
	store *backup.Store
	files status.FileManager
}

func New(store *backup.Store, files status.FileManager) *Flow {
	return &Flow{store: store, files: files}
}

// 📋 ListRestorable returns every artifact, newest first.
// A missing or empty backup directory yields ErrNoBackups.
func (f *Flow) ListRestorable(ctx context.Context) ([]Entry, error) {
	artifacts, err := f.store.List(ctx)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupDir) {
			return nil, errors.Errorf("%w in %s", ErrNoBackups, f.store.Dir())
		}
		return nil, err
	}
	if len(artifacts) == 0 {
		return nil, errors.Errorf("%w in %s", ErrNoBackups, f.store.Dir())
	}

	entries := make([]Entry, 0, len(artifacts))
	for _, a := range artifacts {
		entries = append(entries, Entry{
			DisplayName: a.Name,
			Artifact:    filepath.Join(f.store.Dir(), a.Name),
			Suggested:   SuggestName(a.Name),
			Created:     a.Created,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DisplayName > entries[j].DisplayName
	})

	return entries, nil
}

// 🔍 LatestFor returns the newest entry backed up from a file with target's
// base name. Suggested is target itself so the file is restored in place.
func (f *Flow) LatestFor(ctx context.Context, target string) (Entry, error) {
	art, err := f.store.Latest(ctx, target)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupDir) || errors.Is(err, backup.ErrNotFound) {
			return Entry{}, errors.Errorf("%w for %s in %s", ErrNoBackups, filepath.Base(target), f.store.Dir())
		}
		return Entry{}, err
	}

	return Entry{
		DisplayName: art.Name,
		Artifact:    filepath.Join(f.store.Dir(), art.Name),
		Suggested:   target,
		Created:     art.Created,
	}, nil
}

// SuggestName drops the timestamp prefix and the backup extension from an
// artifact name: "2026-10-16T09-41-07-512Z_notes.md.backup" becomes "notes.md".
func SuggestName(artifact string) string {
	name := timestampPrefix.ReplaceAllString(filepath.Base(artifact), "")
	return strings.TrimSuffix(name, backup.Extension)
}

// 📝 Restore copies the artifact to dest byte for byte, creating missing
// parent directories. The artifact is a name in the backup directory or a
// path inside it. An existing dest is overwritten.
func (f *Flow) Restore(ctx context.Context, artifact, dest string) error {
	logger := zerolog.Ctx(ctx)

	if dest == "" {
		return errors.Errorf("restore destination is required")
	}

	name := filepath.Base(artifact)
	if dir := filepath.Dir(artifact); dir != "." && filepath.Clean(dir) != f.store.Dir() {
		return errors.Errorf("%w: %s is not in %s", backup.ErrInvalidName, artifact, f.store.Dir())
	}

	content, err := f.store.Read(ctx, name)
	if err != nil {
		return err
	}

	if err := f.files.WriteFile(ctx, dest, content); err != nil {
		return errors.Errorf("writing %s: %w", dest, err)
	}

	logger.Debug().Str("artifact", name).Str("dest", dest).Int("bytes", len(content)).Msg("restored backup")
	return nil
}
