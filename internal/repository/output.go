// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pdiddy/research-index/internal/assemble"
	"github.com/pdiddy/research-index/internal/filter"
	"github.com/pdiddy/research-index/internal/graphstore"
	"github.com/pdiddy/research-index/internal/logging"
	"github.com/pdiddy/research-index/internal/paging"
	"github.com/pdiddy/research-index/pkg/types"
)

// OutputRepository reads outputs with their ranked authors and countries.
type OutputRepository struct {
	store  graphstore.Store
	logger *slog.Logger
}

// GetOutput returns one output. The node and its countries are read
// first, then the ranked authors.
func (r *OutputRepository) GetOutput(ctx context.Context, id string) (types.OutputView, error) {
	if err := requireID("output", id); err != nil {
		return types.OutputView{}, err
	}
	logging.FromContext(ctx, r.logger).Debug("getting output", "id", id)
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.OutputView, error) {
		recs, err := s.Execute(ctx, stmtOutputNode, graphstore.Params{"uuid": id})
		if err != nil {
			return types.OutputView{}, fmt.Errorf("fetching output %s: %w", id, err)
		}
		var (
			out   types.OutputView
			found bool
		)
		for _, rec := range recs {
			if out, found = assemble.OutputRow(rec); found {
				break
			}
		}
		if !found {
			return types.OutputView{}, notFound("output", id)
		}

		authors, err := s.Execute(ctx, stmtOutputAuthors, graphstore.Params{"uuid": id})
		if err != nil {
			return types.OutputView{}, fmt.Errorf("fetching authors of output %s: %w", id, err)
		}
		out.Authors = assemble.RankedAuthors(authors)
		return out, nil
	})
}

// Count returns the global per-type output counts.
func (r *OutputRepository) Count(ctx context.Context) (types.Count, error) {
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.Count, error) {
		return r.count(ctx, s)
	})
}

// FilterByType returns a page of outputs of resultType, newest first. An
// empty resultType spans all types.
func (r *OutputRepository) FilterByType(ctx context.Context, resultType string, skip, limit int) ([]types.OutputView, error) {
	rt, page, err := parseOutputFilter(resultType, skip, limit)
	if err != nil {
		return nil, err
	}
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) ([]types.OutputView, error) {
		return r.filterByType(ctx, s, rt, page)
	})
}

// FilterByCountry returns a page of outputs of resultType that refer to
// country, newest first.
func (r *OutputRepository) FilterByCountry(ctx context.Context, resultType, country string, skip, limit int) ([]types.OutputView, error) {
	rt, page, err := parseOutputFilter(resultType, skip, limit)
	if err != nil {
		return nil, err
	}
	code, err := filter.ParseCountry(country)
	if err != nil {
		return nil, err
	}
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) ([]types.OutputView, error) {
		return r.filterByCountry(ctx, s, rt, code, page)
	})
}

// GetOutputs returns a page of outputs, restricted to country when it is
// set. meta.count is always the global per-type count, whatever the filter.
func (r *OutputRepository) GetOutputs(ctx context.Context, skip, limit int, resultType, country string) (types.OutputList, error) {
	rt, page, err := parseOutputFilter(resultType, skip, limit)
	if err != nil {
		return types.OutputList{}, err
	}
	code, err := filter.ParseCountry(country)
	if err != nil {
		return types.OutputList{}, err
	}

	logging.FromContext(ctx, r.logger).Debug("listing outputs", "result_type", rt, "country", code, "skip", page.Skip, "limit", page.Limit)
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.OutputList, error) {
		return r.getOutputs(ctx, s, page, rt, code)
	})
}

func (r *OutputRepository) getOutputs(ctx context.Context, s graphstore.Session, page filter.Page, rt types.ResultType, country string) (types.OutputList, error) {
	var (
		results []types.OutputView
		err     error
	)
	if country != "" {
		results, err = r.filterByCountry(ctx, s, rt, country, page)
	} else {
		results, err = r.filterByType(ctx, s, rt, page)
	}
	if err != nil {
		return types.OutputList{}, err
	}
	counts, err := r.count(ctx, s)
	if err != nil {
		return types.OutputList{}, err
	}
	return paging.NewList(paging.OutputMeta(counts, page, rt), results), nil
}

func (r *OutputRepository) count(ctx context.Context, s graphstore.Session) (types.Count, error) {
	recs, err := s.Execute(ctx, stmtOutputCount, graphstore.Params{})
	if err != nil {
		return types.Count{}, fmt.Errorf("counting outputs: %w", err)
	}
	return assemble.Count(recs), nil
}

func (r *OutputRepository) filterByType(ctx context.Context, s graphstore.Session, rt types.ResultType, page filter.Page) ([]types.OutputView, error) {
	recs, err := s.Execute(ctx, stmtOutputByType, pageParams(graphstore.Params{
		"result_type": resultTypeParam(rt),
	}, page))
	if err != nil {
		return nil, fmt.Errorf("fetching outputs: %w", err)
	}
	return paging.Slice(assemble.Outputs(recs), filter.Page{Limit: page.Limit}), nil
}

func (r *OutputRepository) filterByCountry(ctx context.Context, s graphstore.Session, rt types.ResultType, country string, page filter.Page) ([]types.OutputView, error) {
	recs, err := s.Execute(ctx, stmtOutputByCountry, pageParams(graphstore.Params{
		"result_type": resultTypeParam(rt),
		"country":     country,
	}, page))
	if err != nil {
		return nil, fmt.Errorf("fetching outputs of country %s: %w", country, err)
	}
	return paging.Slice(assemble.Outputs(recs), filter.Page{Limit: page.Limit}), nil
}

func parseOutputFilter(resultType string, skip, limit int) (types.ResultType, filter.Page, error) {
	rt, err := filter.ParseResultType(resultType)
	if err != nil {
		return "", filter.Page{}, err
	}
	page, err := filter.NewPage(skip, limit)
	if err != nil {
		return "", filter.Page{}, err
	}
	return rt, page, nil
}
