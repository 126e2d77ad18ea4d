// Package mcpserver exposes the document corpus to LLM agents over the
// Model Context Protocol. Three tools: resolve (full envelope for one
// or more selector queries), list_selectors (the addressable surface of
// the corpus), and read (content of a single node, nothing else).
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/folio/internal/corpus"
	"github.com/agentic-research/folio/internal/render"
	"github.com/agentic-research/folio/internal/resolve"
	"github.com/agentic-research/folio/internal/selector"
)

// Server wraps a loaded corpus behind MCP tool handlers.
type Server struct {
	corpus *corpus.Corpus
	opts   resolve.Options
}

func New(c *corpus.Corpus, opts resolve.Options) *Server {
	return &Server{corpus: c, opts: opts}
}

// MCP assembles the protocol server with every tool registered.
func (s *Server) MCP() *server.MCPServer {
	srv := server.NewMCPServer("folio", "1.0.0", server.WithToolCapabilities(false))

	srv.AddTool(mcp.NewTool("resolve",
		mcp.WithDescription("Resolve one or more document selectors (newline- or comma-separated) and return the full JSON envelope: content, word counts, paths, pagination, and structured failures with suggestions."),
		mcp.WithString("queries", mcp.Required(),
			mcp.Description("Selector queries, e.g. \"docs::heading:h2[1]/block:code[0]\". Separate multiple queries with newlines or commas."),
		),
	), s.handleResolve)

	srv.AddTool(mcp.NewTool("list_selectors",
		mcp.WithDescription("List every addressable selector in the corpus, optionally restricted to one document namespace."),
		mcp.WithString("namespace",
			mcp.Description("Restrict the listing to this document namespace."),
		),
	), s.handleListSelectors)

	srv.AddTool(mcp.NewTool("read",
		mcp.WithDescription("Return the raw markdown content of exactly one selector, with no envelope around it."),
		mcp.WithString("query", mcp.Required(),
			mcp.Description("A single selector query."),
		),
	), s.handleRead)

	return srv
}

// ServeStdio runs the protocol loop over stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.MCP())
}

func (s *Server) handleResolve(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("queries")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	queries := splitQueries(raw)
	if len(queries) == 0 {
		return mcp.NewToolResultError("no queries given"), nil
	}
	env := render.Resolve(s.corpus, s.opts, queries)
	return mcp.NewToolResultText(render.JSON(env)), nil
}

func (s *Server) handleListSelectors(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ns := req.GetString("namespace", "")
	selectors, err := s.listSelectors(ns)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strings.Join(selectors, "\n")), nil
}

func (s *Server) handleRead(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, rerr := s.readSelector(query)
	if rerr != nil {
		return mcp.NewToolResultError(rerr.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}

// listSelectors returns the addressable surface, corpus-wide or for a
// single namespace.
func (s *Server) listSelectors(namespace string) ([]string, error) {
	if namespace == "" {
		return s.corpus.Selectors(), nil
	}
	tree, ok := s.corpus.Tree(namespace)
	if !ok {
		return nil, fmt.Errorf("namespace %q matches no loaded document", namespace)
	}
	return tree.Selectors(), nil
}

// readSelector resolves exactly one query and returns its raw content.
// Multi-document queries are rejected: read is for one node.
func (s *Server) readSelector(query string) (string, error) {
	sel, err := selector.Parse(query)
	if err != nil {
		return "", err
	}
	out := resolve.Multi(s.corpus.Trees(), sel, s.opts)
	if !out.OK() {
		return "", fmt.Errorf("%s: %s", out.Err.Kind, out.Err.Message)
	}
	if len(out.Results) > 1 {
		return "", fmt.Errorf("query %q matches %d documents; qualify it with a namespace", query, len(out.Results))
	}
	res := out.Results[0]
	tree, ok := s.corpus.Tree(res.Namespace)
	if !ok {
		return "", fmt.Errorf("namespace %q vanished from corpus", res.Namespace)
	}
	return string(tree.Content(res.Node)), nil
}

// splitQueries accepts newline- and comma-separated query lists.
func splitQueries(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ','
	})
	var out []string
	for _, f := range fields {
		if q := strings.TrimSpace(f); q != "" {
			out = append(out, q)
		}
	}
	return out
}
