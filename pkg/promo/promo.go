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

// Package promo asks users to star the project and looks the repository up on GitHub.
package promo

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	Owner   = "walteh"
	Repo    = "deemoji"
	RepoURL = "https://github.com/" + Owner + "/" + Repo

	Message = "⭐ Enjoying deemoji? Run `deemoji star` to star it on GitHub, or `deemoji star --dismiss` to stop this message."
)

// 📦 RepoInfo is what the star command shows about the repository
type RepoInfo struct {
	FullName    string
	HTMLURL     string
	Stargazers  int
	Description string
}

// 🔧 Options configures a Promoter
type Options struct {
	// HTTPClient is used for GitHub requests, http.DefaultClient when nil
	HTTPClient *http.Client
	// BaseURL overrides the GitHub API endpoint
	BaseURL string
	// Token authenticates GitHub requests, GITHUB_TOKEN when empty
	Token string
	// MarkerPath is the dismiss marker, DefaultMarkerPath when empty
	MarkerPath string
	// Opener opens a URL in the browser, the platform opener when nil
	Opener func(ctx context.Context, target string) error
}

// ⭐ Promoter shows the star request and performs the star lookup
type Promoter struct {
	client     *github.Client
	markerPath string
	opener     func(ctx context.Context, target string) error
}

// 🏭 New creates a promoter
func New(opts Options) (*Promoter, error) {
	client := github.NewClient(opts.HTTPClient)

	token := opts.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token != "" {
		client = client.WithAuthToken(token)
	}

	if opts.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, errors.Errorf("parsing github base url: %w", err)
		}
		client.BaseURL = base
	}

	marker := opts.MarkerPath
	if marker == "" {
		var err error
		marker, err = DefaultMarkerPath()
		if err != nil {
			return nil, err
		}
	}

	opener := opts.Opener
	if opener == nil {
		opener = OpenBrowser
	}

	return &Promoter{client: client, markerPath: marker, opener: opener}, nil
}

// DefaultMarkerPath returns <user config dir>/deemoji/star-dismissed
func DefaultMarkerPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, "deemoji", "star-dismissed"), nil
}

// ShouldAsk reports whether the star request should be shown
func (p *Promoter) ShouldAsk(ctx context.Context, showStarRequest bool) bool {
	if !showStarRequest {
		return false
	}
	return !p.IsDismissed(ctx)
}

// IsDismissed reports whether the dismiss marker exists
func (p *Promoter) IsDismissed(ctx context.Context) bool {
	_, err := os.Stat(p.markerPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Err(err).Str("marker", p.markerPath).Msg("checking star marker")
	}
	return err == nil
}

// 🙈 Dismiss writes the marker that turns the star request off
func (p *Promoter) Dismiss(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(p.markerPath), 0o755); err != nil {
		return errors.Errorf("creating marker directory: %w", err)
	}
	if err := os.WriteFile(p.markerPath, []byte("dismissed\n"), 0o644); err != nil {
		return errors.Errorf("writing star marker: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("marker", p.markerPath).Msg("star request dismissed")
	return nil
}

// 🔍 Lookup fetches the repository from the GitHub API
func (p *Promoter) Lookup(ctx context.Context) (*RepoInfo, error) {
	repo, _, err := p.client.Repositories.Get(ctx, Owner, Repo)
	if err != nil {
		return nil, errors.Errorf("getting repository %s/%s: %w", Owner, Repo, err)
	}

	info := &RepoInfo{
		FullName:    repo.GetFullName(),
		HTMLURL:     repo.GetHTMLURL(),
		Stargazers:  repo.GetStargazersCount(),
		Description: repo.GetDescription(),
	}
	if info.HTMLURL == "" {
		info.HTMLURL = RepoURL
	}
	return info, nil
}

// Open opens target with the configured opener
func (p *Promoter) Open(ctx context.Context, target string) error {
	if err := p.opener(ctx, target); err != nil {
		return errors.Errorf("opening %s: %w", target, err)
	}
	return nil
}

// 🌐 OpenBrowser opens target with the platform's default handler
func OpenBrowser(ctx context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	}
	return cmd.Start()
}
