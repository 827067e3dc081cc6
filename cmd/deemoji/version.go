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
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/walteh/deemoji/pkg/backup"
	"github.com/walteh/deemoji/pkg/pattern"
)

// modules whose versions change what deemoji matches or names
var reportedDeps = []string{
	"github.com/kyokomi/emoji/v2",
	"golang.org/x/text",
}

// 🏷️ VersionInfo describes the binary and the matching rules it was built with
type VersionInfo struct {
	Version        string            `json:"version"`
	Revision       string            `json:"revision,omitempty"`
	Time           string            `json:"time,omitempty"`
	Modified       bool              `json:"modified"`
	GoVersion      string            `json:"go_version"`
	Platform       string            `json:"platform"`
	Unicode        string            `json:"unicode"`
	DefaultPattern string            `json:"default_pattern"`
	BackupDir      string            `json:"backup_dir"`
	Deps           map[string]string `json:"deps,omitempty"`
}

// GetVersionInfo reads the build info of the running binary
func GetVersionInfo() *VersionInfo {
	bi, _ := debug.ReadBuildInfo()
	return versionInfo(bi)
}

func versionInfo(bi *debug.BuildInfo) *VersionInfo {
	info := &VersionInfo{
		Version:        "dev",
		GoVersion:      runtime.Version(),
		Platform:       fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Unicode:        unicode.Version,
		DefaultPattern: pattern.DefaultSource,
		BackupDir:      backup.DefaultDir(),
	}
	if bi == nil {
		return info
	}

	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.time":
			info.Time = setting.Value
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}

	for _, dep := range bi.Deps {
		for _, path := range reportedDeps {
			if dep.Path == path {
				if info.Deps == nil {
					info.Deps = make(map[string]string)
				}
				info.Deps[path] = dep.Version
			}
		}
	}

	return info
}

// Format renders the info for a terminal
func (v *VersionInfo) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "🧹 deemoji %s\n", v.Version)
	if v.Revision != "" {
		modified := ""
		if v.Modified {
			modified = " (modified)"
		}
		fmt.Fprintf(&b, "Revision:  %s%s\n", v.Revision, modified)
	}
	if v.Time != "" {
		fmt.Fprintf(&b, "Built:     %s\n", v.Time)
	}
	fmt.Fprintf(&b, "Go:        %s (%s)\n", v.GoVersion, v.Platform)
	fmt.Fprintf(&b, "Unicode:   %s\n", v.Unicode)
	fmt.Fprintf(&b, "Pattern:   %s\n", v.DefaultPattern)
	fmt.Fprintf(&b, "Backups:   %s\n", v.BackupDir)
	for _, path := range reportedDeps {
		if version, ok := v.Deps[path]; ok {
			fmt.Fprintf(&b, "Uses:      %s %s\n", path, version)
		}
	}

	return b.String()
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and matching rules",
		Args:  cobra.NoArgs,
		// version needs no config
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		RunE: func(cmd *cobra.Command, args []string) error {
			info := GetVersionInfo()
			if !asJSON {
				fmt.Fprint(cmd.OutOrStdout(), info.Format())
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
