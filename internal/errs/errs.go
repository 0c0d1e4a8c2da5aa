// Package errs provides a lightweight structured error type (SiteError)
// for category-based classification of site generation failures.
package errs

import "fmt"

// Category classifies a site generation error for routing and reporting.
type Category string

const (
	// Per-input failures (isolated, reported, never abort the run).
	CategoryInvalidPath Category = "invalid_path" // traversal or outside-root access
	CategoryMetadata    Category = "metadata"     // malformed frontmatter, treated as absent
	CategoryConversion  Category = "conversion"   // Markdown to HTML conversion failure
	CategoryThumbnail   Category = "thumbnail"    // per-image thumbnail failure
	CategoryRender      Category = "render"       // per-node template rendering failure

	// Run-level failures (abort immediately).
	CategoryConfig Category = "config" // invalid or incomplete site configuration
	CategoryDepth  Category = "depth"  // nesting exceeds the configured maximum
	CategoryIO     Category = "io"     // unusable content root or output root
)

// Severity indicates how a classified error affects the run.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Aborts the run.
	SeverityWarning Severity = "warning" // Recorded; the run continues.
)

// SiteError is a structured error carrying category, severity and cause.
type SiteError struct {
	Category Category
	Severity Severity
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *SiteError) Unwrap() error { return e.Cause }

// New creates a SiteError without a cause.
func New(category Category, severity Severity, message string) *SiteError {
	return &SiteError{Category: category, Severity: severity, Message: message}
}

// Wrap creates a SiteError wrapping an existing error.
func Wrap(err error, category Category, severity Severity, message string) *SiteError {
	return &SiteError{Category: category, Severity: severity, Message: message, Cause: err}
}

// Warning creates a recoverable SiteError for the given category.
func Warning(category Category, message string) *SiteError {
	return New(category, SeverityWarning, message)
}

// Fatal creates a run-aborting SiteError for the given category.
func Fatal(category Category, message string) *SiteError {
	return New(category, SeverityFatal, message)
}

// IsCategory reports whether err is a SiteError of the given category.
func IsCategory(err error, category Category) bool {
	if se, ok := err.(*SiteError); ok {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, defaulting to CategoryIO
// for plain errors so callers always have something to report.
func GetCategory(err error) Category {
	if se, ok := err.(*SiteError); ok {
		return se.Category
	}
	return CategoryIO
}

// IsFatal reports whether err carries fatal severity. Plain errors are
// treated as fatal, matching the propagation policy for unclassified failures.
func IsFatal(err error) bool {
	if se, ok := err.(*SiteError); ok {
		return se.Severity == SeverityFatal
	}
	return err != nil
}
