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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/walteh/deemoji/cmd/deemoji/commands"
	"github.com/walteh/deemoji/cmd/deemoji/opts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootOpts := &opts.RootOpts{}
	rootCmd := newRootCmd(rootOpts)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if rootOpts.Console != nil {
			rootOpts.Console.Error(err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// newRootCmd wires every command to rootOpts
func newRootCmd(rootOpts *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deemoji",
		Short: "Remove emojis from text files",
		Long: `deemoji removes emoji characters from text files and repairs the whitespace
left behind. Every destructive edit is preceded by a timestamped backup that
can be listed and restored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(cmd.ErrOrStderr())
			ctx := logger.WithContext(cmd.Context())
			cmd.SetContext(ctx)

			return fillRootOpts(ctx, rootOpts, cmd)
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewFileCmd(rootOpts),
		commands.NewSelectionCmd(rootOpts),
		commands.NewRunCmd(rootOpts),
		commands.NewScanCmd(rootOpts),
		commands.NewBackupsCmd(rootOpts),
		commands.NewRestoreCmd(rootOpts),
		commands.NewStarCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}
