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

package fileset

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// DefaultInclude matches every file
	DefaultInclude = []string{"**/*"}
	// DefaultExclude skips version control and dependency directories
	DefaultExclude = []string{"**/node_modules/**", "**/.git/**"}

	ErrNoRoots = errors.Base("no root directories given")
)

// 🔧 Options selects the files of one batch run
type Options struct {
	Roots   []string // directories to search
	Include []string // doublestar patterns relative to each root
	Exclude []string // doublestar patterns relative to each root
}

// 🔍 Resolve returns the absolute paths of every regular file under the roots that
// matches an include pattern and no exclude pattern, deduplicated by canonical path.
// Order follows roots, then include patterns, then the glob walk.
func Resolve(ctx context.Context, opts Options) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if len(opts.Roots) == 0 {
		return nil, errors.WithStack(ErrNoRoots)
	}

	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}

	if err := Validate(append(append([]string{}, include...), opts.Exclude...)); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string

	for _, root := range opts.Roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, errors.Errorf("resolving root %s: %w", root, err)
		}
		info, err := os.Stat(absRoot)
		if err != nil {
			return nil, errors.Errorf("reading root %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, errors.Errorf("root %s is not a directory", root)
		}

		fsys := os.DirFS(absRoot)
		for _, pattern := range include {
			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, errors.Errorf("globbing %s in %s: %w", pattern, root, err)
			}

			for _, rel := range matches {
				if Excluded(rel, opts.Exclude) {
					logger.Trace().Str("file", rel).Msg("file excluded by pattern")
					continue
				}

				full := filepath.Join(absRoot, filepath.FromSlash(rel))
				key := canonical(full)
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				files = append(files, full)
			}
		}
	}

	logger.Debug().Int("files", len(files)).Strs("roots", opts.Roots).Msg("resolved file set")

	return files, nil
}

// Excluded reports whether the slash separated relative path matches any pattern
func Excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Validate checks that every pattern is a well formed doublestar pattern
func Validate(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid glob pattern %q", pattern)
		}
	}
	return nil
}

// canonical resolves symlinks so that two routes to one file share a key
func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
