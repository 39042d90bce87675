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

// WorkstreamRepository reads workstreams and their members.
type WorkstreamRepository struct {
	store   graphstore.Store
	authors *AuthorRepository
	logger  *slog.Logger
}

// GetDetail returns the workstream with the ids of its direct child units.
// Only one level of children is read, so cycles in unit_of cannot loop.
func (r *WorkstreamRepository) GetDetail(ctx context.Context, id string) (types.WorkstreamDetail, error) {
	if err := requireID("workstream", id); err != nil {
		return types.WorkstreamDetail{}, err
	}
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.WorkstreamDetail, error) {
		return r.getDetail(ctx, s, id)
	})
}

// ListWorkstreams returns a page of workstreams that have at least one
// member, ordered by parent name then own name. A page with no rows is
// ErrEmptyResult.
func (r *WorkstreamRepository) ListWorkstreams(ctx context.Context, skip, limit int) ([]types.Workstream, error) {
	page, err := filter.NewPage(skip, limit)
	if err != nil {
		return nil, err
	}
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) ([]types.Workstream, error) {
		return r.listWorkstreams(ctx, s, page)
	})
}

// GetMembers returns the author listing filtered to members of any of ids.
func (r *WorkstreamRepository) GetMembers(ctx context.Context, ids []string, skip, limit int) (types.AuthorList, error) {
	page, err := filter.NewPage(skip, limit)
	if err != nil {
		return types.AuthorList{}, err
	}
	ws := filter.Workstreams(ids)
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.AuthorList, error) {
		return r.authors.listAuthors(ctx, s, page, ws)
	})
}

// CountMembers returns the number of workstreams with at least one member.
func (r *WorkstreamRepository) CountMembers(ctx context.Context) (int, error) {
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (int, error) {
		return r.countMembers(ctx, s)
	})
}

// GetAll returns a page of workstreams with the number of workstreams that
// have members.
func (r *WorkstreamRepository) GetAll(ctx context.Context, skip, limit int) (types.WorkstreamList, error) {
	page, err := filter.NewPage(skip, limit)
	if err != nil {
		return types.WorkstreamList{}, err
	}
	logging.FromContext(ctx, r.logger).Debug("listing workstreams", "skip", page.Skip, "limit", page.Limit)
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.WorkstreamList, error) {
		results, err := r.listWorkstreams(ctx, s, page)
		if err != nil {
			return types.WorkstreamList{}, err
		}
		total, err := r.countMembers(ctx, s)
		if err != nil {
			return types.WorkstreamList{}, err
		}
		return paging.NewList(paging.ListMeta(total, page), results), nil
	})
}

// Get returns the workstream detail merged with a page of the members of
// the workstream and its direct children.
func (r *WorkstreamRepository) Get(ctx context.Context, id string, skip, limit int) (types.WorkstreamView, error) {
	if err := requireID("workstream", id); err != nil {
		return types.WorkstreamView{}, err
	}
	page, err := filter.NewPage(skip, limit)
	if err != nil {
		return types.WorkstreamView{}, err
	}

	logging.FromContext(ctx, r.logger).Debug("getting workstream", "id", id, "skip", page.Skip, "limit", page.Limit)
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.WorkstreamView, error) {
		detail, err := r.getDetail(ctx, s, id)
		if err != nil {
			return types.WorkstreamView{}, err
		}
		ids := append([]string{detail.ID}, detail.Children...)
		members, err := r.authors.listAuthors(ctx, s, page, filter.Workstreams(ids))
		if err != nil {
			return types.WorkstreamView{}, err
		}
		return assemble.WorkstreamView(detail, members), nil
	})
}

func (r *WorkstreamRepository) getDetail(ctx context.Context, s graphstore.Session, id string) (types.WorkstreamDetail, error) {
	recs, err := s.Execute(ctx, stmtWorkstreamDetail, graphstore.Params{"id": id})
	if err != nil {
		return types.WorkstreamDetail{}, fmt.Errorf("fetching workstream %s: %w", id, err)
	}
	for _, rec := range recs {
		if detail, ok := assemble.WorkstreamDetail(rec); ok {
			return detail, nil
		}
	}
	return types.WorkstreamDetail{}, notFound("workstream", id)
}

func (r *WorkstreamRepository) listWorkstreams(ctx context.Context, s graphstore.Session, page filter.Page) ([]types.Workstream, error) {
	recs, err := s.Execute(ctx, stmtWorkstreamList, pageParams(graphstore.Params{}, page))
	if err != nil {
		return nil, fmt.Errorf("listing workstreams: %w", err)
	}
	results := paging.Slice(assemble.WorkstreamRows(recs), filter.Page{Limit: page.Limit})
	if len(results) == 0 {
		return nil, fmt.Errorf("listing workstreams (skip %d, limit %d): %w", page.Skip, page.Limit, ErrEmptyResult)
	}
	return results, nil
}

func (r *WorkstreamRepository) countMembers(ctx context.Context, s graphstore.Session) (int, error) {
	recs, err := s.Execute(ctx, stmtWorkstreamCountMembers, graphstore.Params{})
	if err != nil {
		return 0, fmt.Errorf("counting workstreams: %w", err)
	}
	return assemble.Total(recs), nil
}
