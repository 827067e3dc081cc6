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

// Package scan reports where emojis occur without changing anything.
package scan

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kyokomi/emoji/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/deemoji/pkg/operation"
	"github.com/walteh/deemoji/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Finding is one match in a scanned document
type Finding struct {
	Path   string
	Line   int // 1-based
	Column int // 1-based, counted in runes
	Glyph  string
	Name   string // shortcode such as ":fire:", empty when unknown
}

// Scanner locates matches with the same pattern the transformer removes
type Scanner struct {
	transformer *text.Transformer
}

func New(transformer *text.Transformer) *Scanner {
	return &Scanner{transformer: transformer}
}

// ScanString returns the findings in content, attributed to path
func (s *Scanner) ScanString(path, content string) []Finding {
	matches := s.transformer.Matches(content)
	if len(matches) == 0 {
		return nil
	}

	findings := make([]Finding, 0, len(matches))
	line, lineStart, offset := 1, 0, 0
	for _, m := range matches {
		for offset < m.Start {
			if content[offset] == '\n' {
				line++
				lineStart = offset + 1
			}
			offset++
		}
		findings = append(findings, Finding{
			Path:   path,
			Line:   line,
			Column: utf8.RuneCountInString(content[lineStart:m.Start]) + 1,
			Glyph:  m.Text,
			Name:   Name(m.Text),
		})
	}
	return findings
}

// 📄 ScanFile reads path and scans it. Content that is not UTF-8 text yields
// operation.ErrNotText.
func (s *Scanner) ScanFile(ctx context.Context, path string) ([]Finding, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	if !operation.IsText(content) {
		return nil, errors.Errorf("%s: %w", path, operation.ErrNotText)
	}

	findings := s.ScanString(path, string(content))
	zerolog.Ctx(ctx).Trace().Str("file", path).Int("findings", len(findings)).Msg("scanned file")
	return findings, nil
}

var shortcodes = sync.OnceValue(func() map[string]string {
	names := make(map[string]string, len(emoji.RevCodeMap()))
	for glyph, aliases := range emoji.RevCodeMap() {
		if len(aliases) == 0 {
			continue
		}
		sorted := append([]string(nil), aliases...)
		sort.Strings(sorted)
		names[glyph] = sorted[0]
	}
	return names
})

// Name returns the shortcode for glyph, trying it with and without the emoji
// presentation selector. Unknown glyphs have an empty name.
func Name(glyph string) string {
	names := shortcodes()
	if name, ok := names[glyph]; ok {
		return name
	}
	bare := strings.ReplaceAll(glyph, "\U0000FE0F", "")
	if name, ok := names[bare]; ok {
		return name
	}
	if name, ok := names[bare+"\U0000FE0F"]; ok {
		return name
	}
	return ""
}
