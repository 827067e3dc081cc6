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

/*
Package config loads deemoji settings from .deemoji.yaml, .deemoji.json or .deemoji.hcl.

	            +-------------+
	            |   Default   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+  +----+----+  +----+----+
	|   YAML   |  |  JSON   |  |   HCL   |
	|  Parser  |  | Parser  |  | Parser  |
	+-----+----+  +----+----+  +----+----+
	      |            |            |
	      +------------+------------+
	                   |
	            +------+------+
	            | DEEMOJI_*   |
	            | environment |
	            +------+------+
	                   |
	            +------+------+
	            |  validator  |
	            +-------------+

🎯 Purpose:
- Finds the config file in the working directory, or uses the one given by --config
- Decodes it over the defaults, so a file only names what it changes
- Applies DEEMOJI_* environment overrides through viper
- Validates glob patterns and ranges before anything touches the disk

🔄 Flow:
1. Default() seeds every key
2. The parser registered for the file extension decodes over it, rejecting unknown keys
3. ApplyEnv overlays environment variables
4. Validate checks the result and cleans the backup path

⚡ Keys:

	filePatterns          file_patterns            globs selecting files for a batch run
	excludePatterns       exclude_patterns         globs removed from the selection
	emojiRegex            emoji_regex              user pattern, falls back to the default when invalid
	showStarRequest       show_star_request        star request after destructive commands
	backupDir             backup_dir               where originals are stored
	blockOnBackupFailure  block_on_backup_failure  skip the write when the backup fails
	joinSequences         join_sequences           remove joined emoji sequences as one match
	concurrency           concurrency              files processed at once, 1 to 64

🔍 Example:

	cfg, err := config.Load(ctx, "")
	if err != nil {
		return err
	}
	tr := text.New(ctx, cfg.TextOptions())
*/
package config
