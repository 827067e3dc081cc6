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

package text

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/deemoji/pkg/pattern"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// 🔧 Options selects the pattern a Transformer uses
type Options struct {
	Override      string // user supplied pattern source, may be empty or invalid
	JoinSequences bool   // treat joiner-linked sequences as one match
}

// 📦 Result pairs the original text with its cleaned form
type Result struct {
	Original string
	Cleaned  string
	Removed  int // number of matches removed
}

// Changed reports whether cleaning altered the text
func (r Result) Changed() bool {
	return r.Original != r.Cleaned
}

// 📍 Match is one emoji match within a text
type Match struct {
	Start int // byte offset of the first byte
	End   int // byte offset after the last byte
	Text  string
}

// 🎯 Transformer removes emoji-like characters and repairs the surrounding whitespace.
// It holds no mutable state and is safe for concurrent use.
type Transformer struct {
	re         *regexp.Regexp
	resolution pattern.Resolution
}

var (
	multiSpace    = regexp.MustCompile(` {2,}`)
	trailingSpace = regexp.MustCompile(`(?m)[ \t]+(\r?)$`)

	selectors = runes.Remove(runes.Predicate(func(r rune) bool {
		return r == pattern.TextSelector || r == pattern.EmojiSelector
	}))
)

// 🏭 New resolves the active pattern and compiles it
func New(ctx context.Context, opts Options) *Transformer {
	res := pattern.Resolve(ctx, opts.Override)

	source := res.Source
	if opts.JoinSequences {
		source = pattern.Join(source)
	}

	re, err := pattern.Compile("(" + source + ")")
	if err != nil {
		// only reachable when a valid override stops compiling once joined
		zerolog.Ctx(ctx).Debug().Err(err).Msg("joined pattern did not compile, using default")
		res = pattern.Resolution{Source: pattern.DefaultSource, Rejected: err}
		re = regexp.MustCompile("(" + pattern.Join(pattern.DefaultSource) + ")")
	}

	return &Transformer{re: re, resolution: res}
}

// Transform builds a Transformer for opts and applies it to s.
func Transform(ctx context.Context, opts Options, s string) Result {
	return New(ctx, opts).Transform(s)
}

// Resolution reports which pattern source is active
func (t *Transformer) Resolution() pattern.Resolution {
	return t.resolution
}

// Matches returns every non-empty match in s
func (t *Transformer) Matches(s string) []Match {
	locs := t.re.FindAllStringIndex(s, -1)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		if loc[0] == loc[1] {
			continue
		}
		matches = append(matches, Match{Start: loc[0], End: loc[1], Text: s[loc[0]:loc[1]]})
	}
	return matches
}

// 🧹 Transform removes every match from s.
//
// Each match is replaced using its neighbours in the original string: a single
// space when both are word characters, nothing otherwise. A joined sequence is
// always replaced with nothing, as its inner glyphs are never word
// neighbours of each other. Variation selectors
// are then dropped, runs of spaces collapsed and trailing blanks stripped from
// every line. Text without any match is returned unchanged.
//
// Invalid UTF-8 in a text that does contain matches is replaced with U+FFFD.
func (t *Transformer) Transform(s string) Result {
	res := Result{Original: s, Cleaned: s}

	matches := t.Matches(s)
	if len(matches) == 0 {
		return res
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m.Start])
		b.WriteString(replacement(s, m))
		last = m.End
	}
	b.WriteString(s[last:])

	out, _, err := transform.String(selectors, b.String())
	if err != nil {
		out = b.String()
	}
	out = multiSpace.ReplaceAllString(out, " ")
	out = trailingSpace.ReplaceAllString(out, "${1}")

	res.Cleaned = out
	res.Removed = len(matches)
	return res
}

// replacement decides what a match turns into based on the characters around it
// in the original text.
func replacement(s string, m Match) string {
	if m.Start == 0 || m.End == len(s) {
		return ""
	}
	if strings.ContainsRune(m.Text, pattern.ZeroWidthJoin) {
		return ""
	}

	before, _ := utf8.DecodeLastRuneInString(s[:m.Start])
	after, _ := utf8.DecodeRuneInString(s[m.End:])

	if isWord(before) && isWord(after) {
		return " " // keep the words apart
	}
	// an adjacent space or punctuation already separates whatever surrounds the match
	return ""
}

// isWord reports whether r is in the ASCII \w class
func isWord(r rune) bool {
	return r == '_' ||
		('0' <= r && r <= '9') ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z')
}
