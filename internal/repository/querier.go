// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"context"

	"github.com/pdiddy/research-index/pkg/types"
)

// Querier is the set of read operations served by the REST and MCP
// surfaces. *Repositories implements it.
type Querier interface {
	ListAuthors(ctx context.Context, skip, limit int, workstreams []string) (types.AuthorList, error)
	GetAuthor(ctx context.Context, id, resultType string, skip, limit int) (types.AuthorView, error)
	ListOutputs(ctx context.Context, skip, limit int, resultType, country string) (types.OutputList, error)
	GetOutput(ctx context.Context, id string) (types.OutputView, error)
	ListCountries(ctx context.Context, skip, limit int) (types.CountryList, error)
	GetCountry(ctx context.Context, id string, skip, limit int, resultType string) (types.CountryView, error)
	ListWorkstreams(ctx context.Context, skip, limit int) (types.WorkstreamList, error)
	GetWorkstream(ctx context.Context, id string, skip, limit int) (types.WorkstreamView, error)
}

var _ Querier = (*Repositories)(nil)

func (r *Repositories) ListAuthors(ctx context.Context, skip, limit int, workstreams []string) (types.AuthorList, error) {
	return r.Authors.ListAuthors(ctx, skip, limit, workstreams)
}

func (r *Repositories) GetAuthor(ctx context.Context, id, resultType string, skip, limit int) (types.AuthorView, error) {
	return r.Authors.GetAuthor(ctx, id, resultType, skip, limit)
}

func (r *Repositories) ListOutputs(ctx context.Context, skip, limit int, resultType, country string) (types.OutputList, error) {
	return r.Outputs.GetOutputs(ctx, skip, limit, resultType, country)
}

func (r *Repositories) GetOutput(ctx context.Context, id string) (types.OutputView, error) {
	return r.Outputs.GetOutput(ctx, id)
}

func (r *Repositories) ListCountries(ctx context.Context, skip, limit int) (types.CountryList, error) {
	return r.Countries.GetCountries(ctx, skip, limit)
}

func (r *Repositories) GetCountry(ctx context.Context, id string, skip, limit int, resultType string) (types.CountryView, error) {
	return r.Countries.GetCountry(ctx, id, skip, limit, resultType)
}

func (r *Repositories) ListWorkstreams(ctx context.Context, skip, limit int) (types.WorkstreamList, error) {
	return r.Workstreams.GetAll(ctx, skip, limit)
}

func (r *Repositories) GetWorkstream(ctx context.Context, id string, skip, limit int) (types.WorkstreamView, error) {
	return r.Workstreams.Get(ctx, id, skip, limit)
}
