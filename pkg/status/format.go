package status

import (
	"fmt"
	"path/filepath"
)

// FileFormatter defines how file operations and progress should be formatted
type FileFormatter interface {
	// FormatFileOperation formats the outcome of processing one file
	FormatFileOperation(path string, state FileState, removed int) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int, path string) string

	// FormatError formats a per file error message
	FormatError(path string, err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file outcome with emojis
func (f *DefaultFileFormatter) FormatFileOperation(path string, state FileState, removed int) string {
	switch state {
	case StateCleaned:
		return fmt.Sprintf("🧹 Cleaned %s (%d removed)", path, removed)
	case StatePreview:
		return fmt.Sprintf("🔍 Would clean %s (%d found)", path, removed)
	case StateSkipped:
		return fmt.Sprintf("⏭️  Skipped %s", path)
	case StateFailed:
		return fmt.Sprintf("❌ Failed %s", path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", path)
	}
}

// FormatProgress formats a progress message with the position in the run
func (f *DefaultFileFormatter) FormatProgress(current, total int, path string) string {
	if current >= total {
		return fmt.Sprintf("✅ Processed %d/%d", current, total)
	}
	if path == "" {
		return fmt.Sprintf("⏳ Processing %d/%d", current, total)
	}
	return fmt.Sprintf("⏳ Processing %s (%d/%d)", filepath.Base(path), current, total)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(path string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error processing %s: %v", path, err)
}
