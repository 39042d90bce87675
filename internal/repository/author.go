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

// AuthorRepository reads authors, their memberships, collaborators and
// outputs.
type AuthorRepository struct {
	store  graphstore.Store
	logger *slog.Logger
}

// FetchNode returns the author with its affiliations and workstreams.
func (r *AuthorRepository) FetchNode(ctx context.Context, id string) (types.AuthorSummary, error) {
	if err := requireID("author", id); err != nil {
		return types.AuthorSummary{}, err
	}
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.AuthorSummary, error) {
		return r.fetchNode(ctx, s, id)
	})
}

// FetchCollaborators returns up to five co-authors of id through outputs
// of resultType, most frequent first. An empty resultType spans all types.
func (r *AuthorRepository) FetchCollaborators(ctx context.Context, id, resultType string) ([]types.AuthorRef, error) {
	if err := requireID("author", id); err != nil {
		return nil, err
	}
	rt, err := filter.ParseResultType(resultType)
	if err != nil {
		return nil, err
	}
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) ([]types.AuthorRef, error) {
		return r.fetchCollaborators(ctx, s, id, rt)
	})
}

// FetchOutputCounts returns the per-type counts of the author's outputs.
func (r *AuthorRepository) FetchOutputCounts(ctx context.Context, id string) (types.Count, error) {
	if err := requireID("author", id); err != nil {
		return types.Count{}, err
	}
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.Count, error) {
		return r.fetchOutputCounts(ctx, s, id)
	})
}

// FetchPublications returns a page of the author's outputs, newest first.
func (r *AuthorRepository) FetchPublications(ctx context.Context, id, resultType string, skip, limit int) ([]types.OutputView, error) {
	if err := requireID("author", id); err != nil {
		return nil, err
	}
	rt, err := filter.ParseResultType(resultType)
	if err != nil {
		return nil, err
	}
	page, err := filter.NewPage(skip, limit)
	if err != nil {
		return nil, err
	}
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) ([]types.OutputView, error) {
		return r.fetchPublications(ctx, s, id, rt, page)
	})
}

// FetchAll returns a page of authors in last name order. A non-empty
// workstream set keeps only members of at least one listed workstream.
func (r *AuthorRepository) FetchAll(ctx context.Context, skip, limit int, workstreams []string) ([]types.AuthorSummary, error) {
	page, err := filter.NewPage(skip, limit)
	if err != nil {
		return nil, err
	}
	ws := filter.Workstreams(workstreams)
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) ([]types.AuthorSummary, error) {
		return r.fetchAll(ctx, s, page, ws)
	})
}

// CountAll returns the number of authors.
func (r *AuthorRepository) CountAll(ctx context.Context) (int, error) {
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (int, error) {
		return r.countAll(ctx, s)
	})
}

// GetAuthor returns the full author profile. The author node is fetched
// first; collaborators, counts and the output page follow on the same
// session.
func (r *AuthorRepository) GetAuthor(ctx context.Context, id, resultType string, skip, limit int) (types.AuthorView, error) {
	if err := requireID("author", id); err != nil {
		return types.AuthorView{}, err
	}
	rt, err := filter.ParseResultType(resultType)
	if err != nil {
		return types.AuthorView{}, err
	}
	page, err := filter.NewPage(skip, limit)
	if err != nil {
		return types.AuthorView{}, err
	}

	logging.FromContext(ctx, r.logger).Debug("getting author", "id", id, "result_type", rt, "skip", page.Skip, "limit", page.Limit)
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.AuthorView, error) {
		summary, err := r.fetchNode(ctx, s, id)
		if err != nil {
			return types.AuthorView{}, err
		}
		collaborators, err := r.fetchCollaborators(ctx, s, id, rt)
		if err != nil {
			return types.AuthorView{}, err
		}
		counts, err := r.fetchOutputCounts(ctx, s, id)
		if err != nil {
			return types.AuthorView{}, err
		}
		outputs, err := r.fetchPublications(ctx, s, id, rt, page)
		if err != nil {
			return types.AuthorView{}, err
		}
		list := paging.NewList(paging.OutputMeta(counts, page, rt), outputs)
		return assemble.AuthorView(summary, collaborators, list), nil
	})
}

// ListAuthors returns a page of authors. Without a workstream filter the
// count is the number of all authors; with one it is the length of the
// returned page.
func (r *AuthorRepository) ListAuthors(ctx context.Context, skip, limit int, workstreams []string) (types.AuthorList, error) {
	page, err := filter.NewPage(skip, limit)
	if err != nil {
		return types.AuthorList{}, err
	}
	ws := filter.Workstreams(workstreams)

	logging.FromContext(ctx, r.logger).Debug("listing authors", "skip", page.Skip, "limit", page.Limit, "workstreams", ws)
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.AuthorList, error) {
		return r.listAuthors(ctx, s, page, ws)
	})
}

func (r *AuthorRepository) listAuthors(ctx context.Context, s graphstore.Session, page filter.Page, ws []string) (types.AuthorList, error) {
	authors, err := r.fetchAll(ctx, s, page, ws)
	if err != nil {
		return types.AuthorList{}, err
	}
	total := len(authors)
	if len(ws) == 0 {
		if total, err = r.countAll(ctx, s); err != nil {
			return types.AuthorList{}, err
		}
	}
	return paging.NewList(paging.ListMeta(total, page), authors), nil
}

func (r *AuthorRepository) fetchNode(ctx context.Context, s graphstore.Session, id string) (types.AuthorSummary, error) {
	recs, err := s.Execute(ctx, stmtAuthorNode, graphstore.Params{"uuid": id})
	if err != nil {
		return types.AuthorSummary{}, fmt.Errorf("fetching author %s: %w", id, err)
	}
	for _, rec := range recs {
		if summary, ok := assemble.AuthorSummary(rec); ok {
			return summary, nil
		}
	}
	return types.AuthorSummary{}, notFound("author", id)
}

func (r *AuthorRepository) fetchCollaborators(ctx context.Context, s graphstore.Session, id string, rt types.ResultType) ([]types.AuthorRef, error) {
	// One extra row leaves room for the author itself should a store
	// return it.
	recs, err := s.Execute(ctx, stmtAuthorCollaborators, graphstore.Params{
		"uuid":        id,
		"result_type": resultTypeParam(rt),
		"limit":       assemble.MaxCollaborators + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching collaborators of %s: %w", id, err)
	}
	return assemble.Collaborators(id, recs), nil
}

func (r *AuthorRepository) fetchOutputCounts(ctx context.Context, s graphstore.Session, id string) (types.Count, error) {
	recs, err := s.Execute(ctx, stmtAuthorOutputCounts, graphstore.Params{"uuid": id})
	if err != nil {
		return types.Count{}, fmt.Errorf("counting outputs of %s: %w", id, err)
	}
	return assemble.Count(recs), nil
}

func (r *AuthorRepository) fetchPublications(ctx context.Context, s graphstore.Session, id string, rt types.ResultType, page filter.Page) ([]types.OutputView, error) {
	recs, err := s.Execute(ctx, stmtAuthorPublications, pageParams(graphstore.Params{
		"uuid":        id,
		"result_type": resultTypeParam(rt),
	}, page))
	if err != nil {
		return nil, fmt.Errorf("fetching outputs of %s: %w", id, err)
	}
	return paging.Slice(assemble.Outputs(recs), filter.Page{Limit: page.Limit}), nil
}

func (r *AuthorRepository) fetchAll(ctx context.Context, s graphstore.Session, page filter.Page, ws []string) ([]types.AuthorSummary, error) {
	if ws == nil {
		ws = []string{}
	}
	recs, err := s.Execute(ctx, stmtAuthorAll, pageParams(graphstore.Params{"workstream_ids": ws}, page))
	if err != nil {
		return nil, fmt.Errorf("fetching authors: %w", err)
	}
	return paging.Slice(assemble.AuthorSummaries(recs), filter.Page{Limit: page.Limit}), nil
}

func (r *AuthorRepository) countAll(ctx context.Context, s graphstore.Session) (int, error) {
	recs, err := s.Execute(ctx, stmtAuthorCountAll, graphstore.Params{})
	if err != nil {
		return 0, fmt.Errorf("counting authors: %w", err)
	}
	return assemble.Total(recs), nil
}
