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

package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/deemoji/cmd/deemoji/opts"
	"github.com/walteh/deemoji/pkg/backup"
	"github.com/walteh/deemoji/pkg/config"
	"github.com/walteh/deemoji/pkg/log"
	"github.com/walteh/deemoji/pkg/status"
	"github.com/walteh/deemoji/pkg/ui"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debugFlag  bool
)

// fillRootOpts loads the config and builds the shared dependencies
func fillRootOpts(ctx context.Context, rootOpts *opts.RootOpts, cmd *cobra.Command) error {
	// console lines are only mirrored to the structured log when debugging
	level := zerolog.Disabled
	if debugFlag {
		level = zerolog.DebugLevel
	}
	rootOpts.Console = log.New(cmd.OutOrStdout(), level)

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("configuration loaded")

	rootOpts.Config = cfg
	rootOpts.Files = status.New(zerolog.Ctx(ctx))
	rootOpts.Backups = backup.New(cfg.BackupDir, rootOpts.Files)
	rootOpts.Stdin = cmd.InOrStdin()
	rootOpts.Stdout = cmd.OutOrStdout()

	if isTerminal(cmd.ErrOrStderr()) {
		rootOpts.Progress = cmd.ErrOrStderr()
	}

	if isTerminal(cmd.InOrStdin()) {
		rootOpts.Prompter = ui.Terminal{}
	} else {
		rootOpts.Prompter = ui.Unattended{}
	}

	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: .deemoji.{yaml,yml,json,hcl} in the working directory)")
	cmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(w io.Writer) zerolog.Logger {
	if debugFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
