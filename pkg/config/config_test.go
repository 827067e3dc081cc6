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
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/deemoji/pkg/backup"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing config file should succeed")
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_yaml",
			file: ".deemoji.yaml",
			config: `
filePatterns: ["**/*.md", "docs/**"]
excludePatterns: ["**/vendor/**"]
emojiRegex: "[\\x{1F600}-\\x{1F64F}]"
showStarRequest: false
backupDir: /tmp/deemoji-test//backups/
blockOnBackupFailure: true
joinSequences: false
concurrency: 4
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"**/*.md", "docs/**"}, cfg.FilePatterns, "file patterns should match")
				assert.Equal(t, []string{"**/vendor/**"}, cfg.ExcludePatterns, "exclude patterns replace the defaults")
				assert.Equal(t, `[\x{1F600}-\x{1F64F}]`, cfg.EmojiRegex)
				assert.False(t, cfg.ShowStarRequest)
				assert.Equal(t, "/tmp/deemoji-test/backups", cfg.BackupDir, "backup dir should be cleaned")
				assert.True(t, cfg.BlockOnBackupFailure)
				assert.False(t, cfg.JoinSequences)
				assert.Equal(t, 4, cfg.Concurrency)
			},
		},
		{
			name:   "partial_yaml_keeps_defaults",
			file:   ".deemoji.yml",
			config: "filePatterns: [\"**/*.txt\"]\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"**/*.txt"}, cfg.FilePatterns)
				assert.Equal(t, []string{"**/node_modules/**", "**/.git/**"}, cfg.ExcludePatterns)
				assert.True(t, cfg.ShowStarRequest, "showStarRequest defaults to true")
				assert.True(t, cfg.JoinSequences)
				assert.False(t, cfg.BlockOnBackupFailure)
				assert.Equal(t, 1, cfg.Concurrency)
				assert.Equal(t, backup.DefaultDir(), cfg.BackupDir)
			},
		},
		{
			name:   "empty_yaml",
			file:   ".deemoji.yaml",
			config: "\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default().FilePatterns, cfg.FilePatterns)
			},
		},
		{
			name: "valid_json",
			file: ".deemoji.json",
			config: `{
				"filePatterns": ["**/*.go"],
				"concurrency": 8,
				"showStarRequest": false
			}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"**/*.go"}, cfg.FilePatterns)
				assert.Equal(t, 8, cfg.Concurrency)
				assert.False(t, cfg.ShowStarRequest)
				assert.True(t, cfg.JoinSequences)
			},
		},
		{
			name: "valid_hcl",
			file: ".deemoji.hcl",
			config: `
file_patterns           = ["**/*.md"]
exclude_patterns        = []
block_on_backup_failure = true
concurrency             = 2
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"**/*.md"}, cfg.FilePatterns)
				assert.Empty(t, cfg.ExcludePatterns)
				assert.True(t, cfg.BlockOnBackupFailure)
				assert.Equal(t, 2, cfg.Concurrency)
				assert.True(t, cfg.ShowStarRequest, "unset attributes keep their defaults")
			},
		},
		{
			name:        "unknown_yaml_field",
			file:        ".deemoji.yaml",
			config:      "filePattern: [\"*.md\"]\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			file:        ".deemoji.json",
			config:      `{"concurency": 2}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "unknown_hcl_attribute",
			file:        ".deemoji.hcl",
			config:      "backup = \"/tmp\"\n",
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "invalid_glob",
			file:        ".deemoji.yaml",
			config:      "filePatterns: [\"src/[a-\"]\n",
			wantErr:     true,
			errContains: "invalid glob pattern",
		},
		{
			name:        "empty_file_patterns",
			file:        ".deemoji.yaml",
			config:      "filePatterns: []\n",
			wantErr:     true,
			errContains: "filePatterns: must be at least 1",
		},
		{
			name:        "concurrency_out_of_range",
			file:        ".deemoji.json",
			config:      `{"concurrency": 0}`,
			wantErr:     true,
			errContains: "concurrency: must be at least 1",
		},
		{
			name:        "unsupported_extension",
			file:        "deemoji.toml",
			config:      "concurrency = 2",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.config)

			cfg, err := Load(testContext(t), path)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, path, cfg.Location())
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), ".deemoji.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Find(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".deemoji.hcl"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, ".deemoji.hcl"), Find(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".deemoji.yaml"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, ".deemoji.yaml"), Find(dir), "yaml wins over hcl")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DEEMOJI_FILE_PATTERNS", "**/*.md, **/*.txt ,")
	t.Setenv("DEEMOJI_SHOW_STAR_REQUEST", "false")
	t.Setenv("DEEMOJI_CONCURRENCY", "3")
	t.Setenv("DEEMOJI_EMOJI_REGEX", `\x{1F600}`)

	path := writeConfig(t, ".deemoji.yaml", "concurrency: 2\nshowStarRequest: true\n")
	cfg, err := Load(testContext(t), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"**/*.md", "**/*.txt"}, cfg.FilePatterns)
	assert.False(t, cfg.ShowStarRequest, "environment overrides the file")
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, `\x{1F600}`, cfg.EmojiRegex)
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("DEEMOJI_JOIN_SEQUENCES", "sometimes")

	_, err := Load(testContext(t), writeConfig(t, ".deemoji.yaml", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEEMOJI_JOIN_SEQUENCES")
}

func TestHCLEnvVariables(t *testing.T) {
	t.Setenv("DEEMOJI_TEST_BACKUPS", "/var/tmp/deemoji")

	cfg, err := Load(testContext(t), writeConfig(t, ".deemoji.hcl", "backup_dir = env.DEEMOJI_TEST_BACKUPS\n"))
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/deemoji", cfg.BackupDir)
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.EmojiRegex = "x"
	cfg.JoinSequences = false

	opts := cfg.TextOptions()
	assert.Equal(t, "x", opts.Override)
	assert.False(t, opts.JoinSequences)

	fs := cfg.FilesetOptions([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, fs.Roots)
	assert.Equal(t, cfg.FilePatterns, fs.Include)
	assert.Equal(t, cfg.ExcludePatterns, fs.Exclude)
}

func TestConfigString(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{
			name: "defaults",
			cfg:  &Config{FilePatterns: []string{"**/*"}, BackupDir: "/tmp/b", Concurrency: 1},
			want: "defaults: include=[**/*] exclude=[] backups=/tmp/b concurrency=1",
		},
		{
			name: "from_file",
			cfg:  &Config{FilePatterns: []string{"*.md"}, ExcludePatterns: []string{"x/**"}, BackupDir: "/b", Concurrency: 2, location: ".deemoji.yaml"},
			want: ".deemoji.yaml: include=[*.md] exclude=[x/**] backups=/b concurrency=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.String(), "String() should match")
		})
	}
}
