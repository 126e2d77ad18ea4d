// Package api defines the JSON response envelope produced for resolved
// selector queries. These types are the wire contract between the core
// and any presentation layer (CLI output, MCP tool results).
package api

import "github.com/agentic-research/folio/internal/suggest"

// Envelope is the top-level response for one command invocation. A
// command asking for several selectors degrades to partial success:
// Success is true when at least one selector resolved, and Failures
// lists the rest.
type Envelope struct {
	// Success reports whether at least one requested selector resolved.
	Success bool `json:"success"`
	// Results holds every resolved node, in query order then document
	// order.
	Results []Result `json:"results,omitempty"`
	// Failures holds every selector that did not resolve, with
	// correction suggestions.
	Failures []Failure `json:"failures,omitempty"`
}

// Result describes one matched node.
type Result struct {
	// Query is the selector string as requested.
	Query string `json:"query"`
	// Selector is the canonical address of the matched node.
	Selector  string `json:"selector"`
	Namespace string `json:"namespace"`
	Type      string `json:"type"`
	WordCount int    `json:"word_count"`
	// Path is the ancestor selector chain from the document root down
	// to the matched node.
	Path []string `json:"path,omitempty"`
	// Content is the node's re-serialized Markdown subtree. Omitted
	// when the query carries full=false.
	Content string `json:"content,omitempty"`
	// ChildrenAvailable hints that narrower selectors exist under this
	// node.
	ChildrenAvailable bool `json:"children_available"`
	// Pagination is set for page results and for containers whose
	// content exceeds the page word limit.
	Pagination *PageMeta `json:"pagination,omitempty"`
}

// PageMeta describes lazy pagination state for a result.
type PageMeta struct {
	// Page is the 0-based page number (-1 for a container result that
	// is merely pageable).
	Page int `json:"page"`
	// TotalPages is the page count at the effective word limit.
	TotalPages int `json:"total_pages"`
	// WordLimit is the ceiling used to compute boundaries.
	WordLimit int `json:"word_limit"`
}

// Failure describes one selector that did not resolve.
type Failure struct {
	Query   string `json:"query"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	// FailingSegment is the 0-based index of the path segment that
	// failed, or -1 when the failure is not segment-scoped.
	FailingSegment int `json:"failing_segment"`
	// Suggestions are ranked correction candidates (possibly empty, so
	// failure responses stay self-correcting for automated callers).
	Suggestions []suggest.Suggestion `json:"suggestions"`
}
