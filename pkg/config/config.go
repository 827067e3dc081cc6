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
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/walteh/deemoji/pkg/backup"
	"github.com/walteh/deemoji/pkg/fileset"
	"github.com/walteh/deemoji/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes data over the defaults
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// FileNames are the config files looked for in the working directory, in order
var FileNames = []string{".deemoji.yaml", ".deemoji.yml", ".deemoji.json", ".deemoji.hcl"}

// 📚 Config represents the complete configuration
type Config struct {
	FilePatterns         []string `json:"filePatterns" yaml:"filePatterns" hcl:"file_patterns,optional" validate:"min=1,dive,required,glob"`
	ExcludePatterns      []string `json:"excludePatterns" yaml:"excludePatterns" hcl:"exclude_patterns,optional" validate:"dive,required,glob"`
	EmojiRegex           string   `json:"emojiRegex" yaml:"emojiRegex" hcl:"emoji_regex,optional"`
	ShowStarRequest      bool     `json:"showStarRequest" yaml:"showStarRequest" hcl:"show_star_request,optional"`
	BackupDir            string   `json:"backupDir" yaml:"backupDir" hcl:"backup_dir,optional"`
	BlockOnBackupFailure bool     `json:"blockOnBackupFailure" yaml:"blockOnBackupFailure" hcl:"block_on_backup_failure,optional"`
	JoinSequences        bool     `json:"joinSequences" yaml:"joinSequences" hcl:"join_sequences,optional"`
	Concurrency          int      `json:"concurrency" yaml:"concurrency" hcl:"concurrency,optional" validate:"min=1,max=64"`

	location string
}

// 🏭 Default returns the configuration used when no file sets a key
func Default() *Config {
	return &Config{
		FilePatterns:    append([]string(nil), fileset.DefaultInclude...),
		ExcludePatterns: append([]string(nil), fileset.DefaultExclude...),
		ShowStarRequest: true,
		BackupDir:       backup.DefaultDir(),
		JoinSequences:   true,
		Concurrency:     1,
	}
}

// 🔍 Find returns the first config file in dir, or "" when there is none
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// 🎯 Load loads the configuration from path, or from the config file found in
// the working directory when path is empty. Without a file the defaults apply.
// DEEMOJI_* environment variables override both.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	if path == "" {
		path = Find(".")
	}

	cfg := Default()
	if path != "" {
		logger.Debug().Str("path", path).Msg("loading configuration")

		var err error
		cfg, err = LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Debug().Msg("no configuration file found, using defaults")
	}

	if err := ApplyEnv(ctx, cfg); err != nil {
		return nil, errors.Errorf("applying environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadFile parses the file at path with the parser matching its extension
func LoadFile(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config %s: %w", path, err)
	}
	cfg.location = path

	return cfg, nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// report yaml key names
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
			return doublestar.ValidatePattern(fl.Field().String())
		})

		validate = v
	})
	return validate
}

// 🔍 Validate checks if the configuration is valid and cleans up paths
func (cfg *Config) Validate() error {
	if err := getValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return errors.Errorf("validating: %w", err)
	}

	if cfg.BackupDir == "" {
		cfg.BackupDir = backup.DefaultDir()
	}
	cfg.BackupDir = filepath.Clean(cfg.BackupDir)

	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "glob":
		return fmt.Sprintf("%s: invalid glob pattern %q", fe.Namespace(), fe.Value())
	case "min", "max":
		return fmt.Sprintf("%s: must be %s %s", fe.Namespace(), map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param())
	case "required":
		return fmt.Sprintf("%s: must not be empty", fe.Namespace())
	default:
		return fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag())
	}
}

// Location returns the file the config was read from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// TextOptions returns the transformer options selected by the config
func (cfg *Config) TextOptions() text.Options {
	return text.Options{
		Override:      cfg.EmojiRegex,
		JoinSequences: cfg.JoinSequences,
	}
}

// FilesetOptions returns the file set options for the given roots
func (cfg *Config) FilesetOptions(roots []string) fileset.Options {
	return fileset.Options{
		Roots:   roots,
		Include: cfg.FilePatterns,
		Exclude: cfg.ExcludePatterns,
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	source := cfg.location
	if source == "" {
		source = "defaults"
	}
	return fmt.Sprintf("%s: include=%v exclude=%v backups=%s concurrency=%d", source, cfg.FilePatterns, cfg.ExcludePatterns, cfg.BackupDir, cfg.Concurrency)
}
