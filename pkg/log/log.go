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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/deemoji/pkg/operation"
	"github.com/walteh/deemoji/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 35 // Base width for filename
	stateWidth = 11 // Width for state text
)

// 🎯 FileOperation represents a processed file for logging
type FileOperation struct {
	Path    string           // File path
	State   status.FileState // What happened to the file
	Removed int              // Emoji matches removed or found
	Backup  string           // Backup location, if any
	Err     error            // Failure cause
}

// 📦 RunOperation represents a batch run for logging
type RunOperation struct {
	Roots  []string // Workspace roots
	Files  int      // Files in the file set
	DryRun bool     // Whether this is a preview
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentRun *RunOperation
	operations []FileOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.State {
	case status.StateCleaned:
		symbol = '✓'
		symbolColor = color.FgGreen
	case status.StatePreview:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case status.StateFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case status.StateSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	var detail string
	switch {
	case op.Err != nil:
		detail = color.New(color.FgRed).Sprint(op.Err.Error())
	case op.Removed > 0 && op.Backup != "":
		detail = fmt.Sprintf("%d removed %s", op.Removed, color.New(color.Faint).Sprint("(backup "+op.Backup+")"))
	case op.Removed > 0:
		detail = fmt.Sprintf("%d removed", op.Removed)
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", stateWidth, op.State.String())),
		detail)
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	ev := l.zlog.Info()
	if op.Err != nil {
		ev = l.zlog.Warn().Err(op.Err)
	}
	ev.Str("file", op.Path).
		Str("state", op.State.String()).
		Int("removed", op.Removed).
		Str("backup", op.Backup).
		Msg("file operation")
}

// 📝 StartRunOperation starts a new batch run
func (l *Logger) StartRunOperation(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentRun = &op
	l.operations = nil

	mode := "cleaning"
	if op.DryRun {
		mode = "previewing"
	}

	fmt.Fprintf(l.console, "[%s %s]\n", mode, color.New(color.FgCyan).Sprint(strings.Join(op.Roots, ", ")))

	fmt.Fprintf(l.console, "%s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d files", op.Files),
		color.New(color.Faint).Sprint("•"))

	l.zlog.Info().
		Strs("roots", op.Roots).
		Int("files", op.Files).
		Bool("dry_run", op.DryRun).
		Msg("starting batch run")
}

// 📝 EndRunOperation prints the summary of the current run
func (l *Logger) EndRunOperation(ctx context.Context, summary *operation.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentRun == nil {
		return
	}

	if summary != nil {
		if l.currentRun.DryRun {
			fmt.Fprintf(l.console, "%s %d of %d files would change, %d emojis found\n",
				color.New(color.FgBlue).Sprint("⟳"), summary.Pending, summary.Total, summary.Removed)
		} else {
			fmt.Fprintf(l.console, "%s Processed %d files, modified %d, created %d backups\n",
				color.New(color.FgGreen).Sprint("✓"), summary.Total, summary.Modified, summary.Backups)
		}
		if summary.Skipped > 0 || summary.Failed > 0 {
			fmt.Fprintf(l.console, "%s %d skipped, %d failed\n",
				color.New(color.FgYellow).Sprint("!"), summary.Skipped, summary.Failed)
		}

		l.zlog.Info().
			Int("total", summary.Total).
			Int("modified", summary.Modified).
			Int("backups", summary.Backups).
			Int("pending", summary.Pending).
			Int("skipped", summary.Skipped).
			Int("failed", summary.Failed).
			Int("logged", len(l.operations)).
			Msg("batch run complete")
	}

	l.currentRun = nil
	l.operations = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("deemoji")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Plain prints msg without decoration, for output meant to be piped
func (l *Logger) Plain(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, msg)
	l.zlog.Debug().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// 📝 Plainf prints a formatted undecorated line
func (l *Logger) Plainf(format string, args ...interface{}) {
	l.Plain(fmt.Sprintf(format, args...))
}
