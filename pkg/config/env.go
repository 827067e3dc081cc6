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

package config

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// EnvPrefix prefixes every environment override, e.g. DEEMOJI_BACKUP_DIR
const EnvPrefix = "DEEMOJI"

// 🌍 ApplyEnv overrides cfg with DEEMOJI_* environment variables. Keys are the
// snake case names used in HCL files; lists are comma separated.
func ApplyEnv(ctx context.Context, cfg *Config) error {
	logger := zerolog.Ctx(ctx)

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	setters := map[string]func(string) error{
		"file_patterns":           func(s string) error { cfg.FilePatterns = splitList(s); return nil },
		"exclude_patterns":        func(s string) error { cfg.ExcludePatterns = splitList(s); return nil },
		"emoji_regex":             func(s string) error { cfg.EmojiRegex = s; return nil },
		"backup_dir":              func(s string) error { cfg.BackupDir = s; return nil },
		"show_star_request":       boolSetter(&cfg.ShowStarRequest),
		"block_on_backup_failure": boolSetter(&cfg.BlockOnBackupFailure),
		"join_sequences":          boolSetter(&cfg.JoinSequences),
		"concurrency": func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return err
			}
			cfg.Concurrency = n
			return nil
		},
	}

	for key, set := range setters {
		if err := v.BindEnv(key); err != nil {
			return errors.Errorf("binding %s: %w", key, err)
		}
		if !v.IsSet(key) {
			continue
		}
		raw := v.GetString(key)
		if err := set(raw); err != nil {
			return errors.Errorf("%s_%s=%q: %w", EnvPrefix, strings.ToUpper(key), raw, err)
		}
		logger.Debug().Str("key", key).Msg("config overridden from environment")
	}

	return nil
}

func boolSetter(dst *bool) func(string) error {
	return func(s string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return cty.ObjectVal(vars)
}
