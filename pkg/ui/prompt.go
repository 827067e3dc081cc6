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

// Package ui asks the user questions on the terminal.
package ui

import (
	"context"
	"slices"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

var ErrCancelled = errors.Base("cancelled by user")

// 💬 Prompter asks for confirmation, a choice or free text
type Prompter interface {
	Confirm(ctx context.Context, question string, def bool) (bool, error)
	Select(ctx context.Context, question string, options []string) (string, error)
	Input(ctx context.Context, question, def string) (string, error)
}

// 🖥️ Terminal prompts interactively through pterm
type Terminal struct{}

func (Terminal) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	ok, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(def).Show(question)
	if err != nil {
		return false, errors.Errorf("reading confirmation: %w", err)
	}
	return ok, nil
}

func (Terminal) Select(ctx context.Context, question string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.Errorf("nothing to select")
	}
	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithMaxHeight(10).
		Show(question)
	if err != nil {
		return "", errors.Errorf("reading selection: %w", err)
	}
	if choice == "" {
		return "", errors.WithStack(ErrCancelled)
	}
	return choice, nil
}

func (Terminal) Input(ctx context.Context, question, def string) (string, error) {
	answer, err := pterm.DefaultInteractiveTextInput.WithDefaultValue(def).Show(question)
	if err != nil {
		return "", errors.Errorf("reading input: %w", err)
	}
	if answer == "" {
		return "", errors.WithStack(ErrCancelled)
	}
	return answer, nil
}

// 🤖 Unattended answers without asking: confirmations return Assume, selections
// take the first option and inputs take their default.
type Unattended struct {
	Assume bool
}

func (u Unattended) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	return u.Assume, nil
}

func (Unattended) Select(ctx context.Context, question string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.Errorf("nothing to select")
	}
	return options[0], nil
}

func (Unattended) Input(ctx context.Context, question, def string) (string, error) {
	if def == "" {
		return "", errors.WithStack(ErrCancelled)
	}
	return def, nil
}

// Scripted replays fixed answers, for tests and piped input
type Scripted struct {
	Confirms []bool
	Choices  []string
	Inputs   []string
}

func (s *Scripted) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	if len(s.Confirms) == 0 {
		return def, nil
	}
	answer := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return answer, nil
}

func (s *Scripted) Select(ctx context.Context, question string, options []string) (string, error) {
	if len(s.Choices) == 0 {
		return "", errors.WithStack(ErrCancelled)
	}
	choice := s.Choices[0]
	s.Choices = s.Choices[1:]
	if !slices.Contains(options, choice) {
		return "", errors.Errorf("%q is not one of the options", choice)
	}
	return choice, nil
}

func (s *Scripted) Input(ctx context.Context, question, def string) (string, error) {
	if len(s.Inputs) == 0 {
		return Unattended{}.Input(ctx, question, def)
	}
	answer := s.Inputs[0]
	s.Inputs = s.Inputs[1:]
	if answer == "" {
		return "", errors.WithStack(ErrCancelled)
	}
	return answer, nil
}
