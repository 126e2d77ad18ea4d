// Package resolve walks selector paths against semantic trees, applying
// per-type ordinal indexing and namespace filtering. Every failure path
// returns a structured error value with correction suggestions attached;
// resolution never panics and never invalidates the tree it ran against.
package resolve

import (
	"fmt"

	"github.com/agentic-research/folio/internal/doctree"
	"github.com/agentic-research/folio/internal/suggest"
)

// ErrorKind classifies resolution failures.
type ErrorKind string

const (
	KindNamespaceNotFound ErrorKind = "namespace_not_found"
	KindSelectorNotFound  ErrorKind = "selector_not_found"
	KindIndexOutOfRange   ErrorKind = "index_out_of_range"
	KindInvalidPath       ErrorKind = "invalid_path"
)

// Error is a recoverable resolution failure. SegmentIndex is the offset
// of the failing path segment, or -1 when the failure is not tied to a
// segment (e.g. an unknown namespace).
type Error struct {
	Kind         ErrorKind
	Message      string
	SegmentIndex int
	Suggestions  []suggest.Suggestion
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Result is one successful match.
type Result struct {
	Namespace string
	Node      doctree.Node
	// Selector is the canonical address of the matched node, which may
	// differ from the query string that found it.
	Selector string
	// Path is the ancestor chain of selectors from the document root
	// down to (and including) the matched node.
	Path      []string
	WordCount int
	// ChildrenAvailable reports whether the node has further
	// addressable children.
	ChildrenAvailable bool
}

// Outcome is the tagged result of a resolution: exactly one of Results
// or Err is meaningful.
type Outcome struct {
	Results []Result
	Err     *Error
}

// OK reports whether the resolution succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

func success(results ...Result) Outcome {
	return Outcome{Results: results}
}

func failure(err *Error) Outcome {
	return Outcome{Err: err}
}

// Options tunes resolution. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// PageWordLimit is the ceiling used when page segments force lazy
	// pagination of a container.
	PageWordLimit int
	// MaxSuggestions and MinSimilarity tune the suggestion engine used
	// on failure paths.
	MaxSuggestions int
	MinSimilarity  float64
}

// DefaultOptions returns the standard resolution tuning.
func DefaultOptions() Options {
	return Options{
		PageWordLimit:  doctree.DefaultPageWordLimit,
		MaxSuggestions: suggest.DefaultMaxResults,
		MinSimilarity:  suggest.DefaultMinRatio,
	}
}
