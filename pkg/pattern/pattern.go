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

package pattern

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Default code-point ranges treated as emoji-like
const (
	PictographRange        = `[\x{1F300}-\x{1FAFF}]` // pictographs, emoticons, transport, supplemental symbols
	SymbolRange            = `[\x{2600}-\x{27BF}]`   // misc symbols and dingbats
	RegionalIndicatorRange = `[\x{1F1E6}-\x{1F1FF}]` // flag components
)

// DefaultSource is the union of the built-in ranges.
var DefaultSource = strings.Join([]string{PictographRange, SymbolRange, RegionalIndicatorRange}, "|")

// 📦 Resolution is the outcome of resolving a pattern source
type Resolution struct {
	Source       string // pattern source ready to be wrapped in a capture group
	FromOverride bool   // whether the user override was accepted
	Rejected     error  // compile error of a discarded override, nil otherwise
}

// 🔍 Resolve returns the active pattern source.
//
// An empty override yields DefaultSource. A non-empty override is used verbatim
// when it compiles; otherwise it is discarded in favour of DefaultSource. The
// compile failure is recorded on the Resolution and logged at debug level, it is
// never returned as an error.
func Resolve(ctx context.Context, override string) Resolution {
	if strings.TrimSpace(override) == "" {
		return Resolution{Source: DefaultSource}
	}

	source := translateEscapes(override)
	if _, err := Compile(source); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("override", override).Msg("invalid emoji pattern override, using default")
		return Resolution{Source: DefaultSource, Rejected: err}
	}

	return Resolution{Source: source, FromOverride: true}
}

// 🔧 Compile compiles a pattern source
func Compile(source string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, errors.Errorf("compiling pattern %q: %w", source, err)
	}
	if re.MatchString("") {
		return nil, errors.Errorf("pattern %q matches the empty string", source)
	}
	return re, nil
}

// Variation selectors and the zero-width joiner.
const (
	TextSelector  = '\uFE0E'
	EmojiSelector = '\uFE0F'
	ZeroWidthJoin = '\u200D'
)

// 🔗 Join extends source so that matches linked by zero-width joiners, each
// optionally preceded by a variation selector, match as one unit.
// 👨‍👩‍👧 and ❤️‍🔥 are each a single match under the joined form. Adjacent
// matches without a joiner and a trailing selector stay separate.
func Join(source string) string {
	return `(?:` + source + `)(?:[\x{FE0E}\x{FE0F}]?\x{200D}(?:` + source + `))*`
}

var (
	braceEscape = regexp.MustCompile(`\\u\{([0-9A-Fa-f]{1,6})\}`)
	shortEscape = regexp.MustCompile(`\\u([0-9A-Fa-f]{4})`)
)

// translateEscapes rewrites ECMAScript unicode escapes into RE2 syntax.
func translateEscapes(source string) string {
	source = braceEscape.ReplaceAllString(source, `\x{$1}`)
	return shortEscape.ReplaceAllString(source, `\x{$1}`)
}
