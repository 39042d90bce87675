// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcptools exposes the query operations as MCP tools. Each tool
// returns the same JSON document as the matching REST route.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pdiddy/research-index/internal/api"
	"github.com/pdiddy/research-index/internal/filter"
	"github.com/pdiddy/research-index/internal/repository"
)

// A zero limit in any tool's parameters means the default page size.
func page(skip, limit int) (int, int) {
	if limit == 0 {
		return skip, filter.DefaultLimit
	}
	return skip, limit
}

// ListAuthorsParams are the arguments of list_authors.
type ListAuthorsParams struct {
	Skip        int      `json:"skip,omitempty" jsonschema:"number of results to skip (default 0)"`
	Limit       int      `json:"limit,omitempty" jsonschema:"maximum number of results (default 20, at most 1000)"`
	Workstreams []string `json:"workstreams,omitempty" jsonschema:"workstream ids; authors must be a member of at least one"`
}

// GetAuthorParams are the arguments of get_author. Skip and Limit page the
// author's outputs.
type GetAuthorParams struct {
	ID         string `json:"id" jsonschema:"author uuid"`
	ResultType string `json:"result_type,omitempty" jsonschema:"publication, dataset, software or other (default publication)"`
	Skip       int    `json:"skip,omitempty" jsonschema:"number of outputs to skip (default 0)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of outputs (default 20, at most 1000)"`
}

// ListOutputsParams are the arguments of list_outputs.
type ListOutputsParams struct {
	ResultType string `json:"result_type,omitempty" jsonschema:"publication, dataset, software or other (default publication)"`
	Country    string `json:"country,omitempty" jsonschema:"three-letter country code the outputs must refer to"`
	Skip       int    `json:"skip,omitempty" jsonschema:"number of results to skip (default 0)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results (default 20, at most 1000)"`
}

// GetOutputParams are the arguments of get_output.
type GetOutputParams struct {
	ID string `json:"id" jsonschema:"output uuid"`
}

// ListCountriesParams are the arguments of list_countries.
type ListCountriesParams struct {
	Skip  int `json:"skip,omitempty" jsonschema:"number of results to skip (default 0)"`
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of results (default 20, at most 1000)"`
}

// GetCountryParams are the arguments of get_country. Skip and Limit page
// the outputs that refer to the country.
type GetCountryParams struct {
	ID         string `json:"id" jsonschema:"three-letter country code"`
	ResultType string `json:"result_type,omitempty" jsonschema:"publication, dataset, software or other (default publication)"`
	Skip       int    `json:"skip,omitempty" jsonschema:"number of outputs to skip (default 0)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of outputs (default 20, at most 1000)"`
}

// ListWorkstreamsParams are the arguments of list_workstreams.
type ListWorkstreamsParams struct {
	Skip  int `json:"skip,omitempty" jsonschema:"number of results to skip (default 0)"`
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of results (default 20, at most 1000)"`
}

// GetWorkstreamParams are the arguments of get_workstream. Skip and Limit
// page the members.
type GetWorkstreamParams struct {
	ID    string `json:"id" jsonschema:"workstream id"`
	Skip  int    `json:"skip,omitempty" jsonschema:"number of members to skip (default 0)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of members (default 20, at most 1000)"`
}

// Tools registers the query tools against a Querier.
type Tools struct {
	q      repository.Querier
	logger *slog.Logger
}

// New returns the tool set. A nil logger discards.
func New(q repository.Querier, logger *slog.Logger) *Tools {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tools{q: q, logger: logger.With("component", "mcp")}
}

// NewServer builds an MCP server with every tool registered.
func NewServer(t *Tools, version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "research-index", Version: version}, nil)
	t.Register(srv)
	return srv
}

// Register adds the tools to srv.
func (t *Tools) Register(srv *mcp.Server) {
	mcp.AddTool(srv,
		&mcp.Tool{Name: "list_authors", Description: "List authors ordered by last name, optionally restricted to workstream members"},
		func(ctx context.Context, _ *mcp.CallToolRequest, p ListAuthorsParams) (*mcp.CallToolResult, any, error) {
			return t.ListAuthors(ctx, p)
		},
	)
	mcp.AddTool(srv,
		&mcp.Tool{Name: "get_author", Description: "Get an author with collaborators and a page of outputs of one result type"},
		func(ctx context.Context, _ *mcp.CallToolRequest, p GetAuthorParams) (*mcp.CallToolResult, any, error) {
			return t.GetAuthor(ctx, p)
		},
	)
	mcp.AddTool(srv,
		&mcp.Tool{Name: "list_outputs", Description: "List research outputs of one result type, newest first, optionally for one country"},
		func(ctx context.Context, _ *mcp.CallToolRequest, p ListOutputsParams) (*mcp.CallToolResult, any, error) {
			return t.ListOutputs(ctx, p)
		},
	)
	mcp.AddTool(srv,
		&mcp.Tool{Name: "get_output", Description: "Get one research output with its ranked authors and countries"},
		func(ctx context.Context, _ *mcp.CallToolRequest, p GetOutputParams) (*mcp.CallToolResult, any, error) {
			return t.GetOutput(ctx, p)
		},
	)
	mcp.AddTool(srv,
		&mcp.Tool{Name: "list_countries", Description: "List countries that research outputs refer to"},
		func(ctx context.Context, _ *mcp.CallToolRequest, p ListCountriesParams) (*mcp.CallToolResult, any, error) {
			return t.ListCountries(ctx, p)
		},
	)
	mcp.AddTool(srv,
		&mcp.Tool{Name: "get_country", Description: "Get a country with a page of the outputs that refer to it"},
		func(ctx context.Context, _ *mcp.CallToolRequest, p GetCountryParams) (*mcp.CallToolResult, any, error) {
			return t.GetCountry(ctx, p)
		},
	)
	mcp.AddTool(srv,
		&mcp.Tool{Name: "list_workstreams", Description: "List workstreams that have members"},
		func(ctx context.Context, _ *mcp.CallToolRequest, p ListWorkstreamsParams) (*mcp.CallToolResult, any, error) {
			return t.ListWorkstreams(ctx, p)
		},
	)
	mcp.AddTool(srv,
		&mcp.Tool{Name: "get_workstream", Description: "Get a workstream with its child units and a page of members"},
		func(ctx context.Context, _ *mcp.CallToolRequest, p GetWorkstreamParams) (*mcp.CallToolResult, any, error) {
			return t.GetWorkstream(ctx, p)
		},
	)
}

// ListAuthors runs list_authors.
func (t *Tools) ListAuthors(ctx context.Context, p ListAuthorsParams) (*mcp.CallToolResult, any, error) {
	skip, limit := page(p.Skip, p.Limit)
	v, err := t.q.ListAuthors(ctx, skip, limit, p.Workstreams)
	return t.result("list_authors", v, err)
}

// GetAuthor runs get_author.
func (t *Tools) GetAuthor(ctx context.Context, p GetAuthorParams) (*mcp.CallToolResult, any, error) {
	skip, limit := page(p.Skip, p.Limit)
	v, err := t.q.GetAuthor(ctx, p.ID, resultType(p.ResultType), skip, limit)
	return t.result("get_author", v, err)
}

// ListOutputs runs list_outputs.
func (t *Tools) ListOutputs(ctx context.Context, p ListOutputsParams) (*mcp.CallToolResult, any, error) {
	skip, limit := page(p.Skip, p.Limit)
	v, err := t.q.ListOutputs(ctx, skip, limit, resultType(p.ResultType), p.Country)
	return t.result("list_outputs", v, err)
}

// GetOutput runs get_output.
func (t *Tools) GetOutput(ctx context.Context, p GetOutputParams) (*mcp.CallToolResult, any, error) {
	v, err := t.q.GetOutput(ctx, p.ID)
	return t.result("get_output", v, err)
}

// ListCountries runs list_countries.
func (t *Tools) ListCountries(ctx context.Context, p ListCountriesParams) (*mcp.CallToolResult, any, error) {
	skip, limit := page(p.Skip, p.Limit)
	v, err := t.q.ListCountries(ctx, skip, limit)
	return t.result("list_countries", v, err)
}

// GetCountry runs get_country.
func (t *Tools) GetCountry(ctx context.Context, p GetCountryParams) (*mcp.CallToolResult, any, error) {
	skip, limit := page(p.Skip, p.Limit)
	v, err := t.q.GetCountry(ctx, p.ID, skip, limit, resultType(p.ResultType))
	return t.result("get_country", v, err)
}

// ListWorkstreams runs list_workstreams.
func (t *Tools) ListWorkstreams(ctx context.Context, p ListWorkstreamsParams) (*mcp.CallToolResult, any, error) {
	skip, limit := page(p.Skip, p.Limit)
	v, err := t.q.ListWorkstreams(ctx, skip, limit)
	return t.result("list_workstreams", v, err)
}

// GetWorkstream runs get_workstream.
func (t *Tools) GetWorkstream(ctx context.Context, p GetWorkstreamParams) (*mcp.CallToolResult, any, error) {
	skip, limit := page(p.Skip, p.Limit)
	v, err := t.q.GetWorkstream(ctx, p.ID, skip, limit)
	return t.result("get_workstream", v, err)
}

// result renders v as indented JSON. Query errors become tool errors
// carrying the same {"error": {"code", "message"}} body as the REST
// surface, so the client sees them instead of a protocol failure.
func (t *Tools) result(tool string, v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		appErr := api.FromError(err)
		if appErr.HTTPStatus >= 500 {
			t.logger.Error("tool failed", "tool", tool, "error", err)
		} else {
			t.logger.Debug("tool rejected", "tool", tool, "code", appErr.Code)
		}
		body, _ := json.Marshal(map[string]any{
			"error": map[string]any{"code": appErr.Code, "message": appErr.Message},
		})
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
		}, nil, nil
	}

	data, merr := json.MarshalIndent(v, "", "  ")
	if merr != nil {
		return nil, nil, fmt.Errorf("encoding %s result: %w", tool, merr)
	}
	t.logger.Debug("tool served", "tool", tool)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func resultType(rt string) string {
	if rt == "" {
		return string(api.DefaultResultType)
	}
	return rt
}
