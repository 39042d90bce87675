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

// CountryRepository reads countries that outputs refer to.
type CountryRepository struct {
	store   graphstore.Store
	outputs *OutputRepository
	logger  *slog.Logger
}

// FetchNode returns the country with code id.
func (r *CountryRepository) FetchNode(ctx context.Context, id string) (types.Country, error) {
	if err := validCountryID(id); err != nil {
		return types.Country{}, err
	}
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.Country, error) {
		return r.fetchNode(ctx, s, id)
	})
}

// CountOutputs returns the per-type counts of outputs referring to id.
func (r *CountryRepository) CountOutputs(ctx context.Context, id string) (types.Count, error) {
	if err := validCountryID(id); err != nil {
		return types.Count{}, err
	}
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.Count, error) {
		return r.countOutputs(ctx, s, id)
	})
}

// CountAll returns the number of countries at least one output refers to.
func (r *CountryRepository) CountAll(ctx context.Context) (int, error) {
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (int, error) {
		return r.countAll(ctx, s)
	})
}

// List returns a page of the countries outputs refer to, in name order.
func (r *CountryRepository) List(ctx context.Context, skip, limit int) ([]types.Country, error) {
	page, err := filter.NewPage(skip, limit)
	if err != nil {
		return nil, err
	}
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) ([]types.Country, error) {
		return r.list(ctx, s, page)
	})
}

// GetCountry returns the country merged with a page of its outputs. The
// page comes from the output listing scoped to the country, with its
// count replaced by the country-scoped count.
func (r *CountryRepository) GetCountry(ctx context.Context, id string, skip, limit int, resultType string) (types.CountryView, error) {
	if err := validCountryID(id); err != nil {
		return types.CountryView{}, err
	}
	rt, page, err := parseOutputFilter(resultType, skip, limit)
	if err != nil {
		return types.CountryView{}, err
	}

	logging.FromContext(ctx, r.logger).Debug("getting country", "id", id, "result_type", rt, "skip", page.Skip, "limit", page.Limit)
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.CountryView, error) {
		country, err := r.fetchNode(ctx, s, id)
		if err != nil {
			return types.CountryView{}, err
		}
		outputs, err := r.outputs.getOutputs(ctx, s, page, rt, id)
		if err != nil {
			return types.CountryView{}, err
		}
		scoped, err := r.countOutputs(ctx, s, id)
		if err != nil {
			return types.CountryView{}, err
		}
		return assemble.CountryView(country, outputs, scoped), nil
	})
}

// GetCountries returns a page of countries with the number of countries
// outputs refer to.
func (r *CountryRepository) GetCountries(ctx context.Context, skip, limit int) (types.CountryList, error) {
	page, err := filter.NewPage(skip, limit)
	if err != nil {
		return types.CountryList{}, err
	}
	logging.FromContext(ctx, r.logger).Debug("listing countries", "skip", page.Skip, "limit", page.Limit)
	return graphstore.WithSession(ctx, r.store, func(s graphstore.Session) (types.CountryList, error) {
		countries, err := r.list(ctx, s, page)
		if err != nil {
			return types.CountryList{}, err
		}
		total, err := r.countAll(ctx, s)
		if err != nil {
			return types.CountryList{}, err
		}
		return paging.NewList(paging.ListMeta(total, page), countries), nil
	})
}

func (r *CountryRepository) fetchNode(ctx context.Context, s graphstore.Session, id string) (types.Country, error) {
	recs, err := s.Execute(ctx, stmtCountryNode, graphstore.Params{"id": id})
	if err != nil {
		return types.Country{}, fmt.Errorf("fetching country %s: %w", id, err)
	}
	countries := assemble.CountryRows(recs)
	if len(countries) == 0 {
		return types.Country{}, notFound("country", id)
	}
	return countries[0], nil
}

func (r *CountryRepository) countOutputs(ctx context.Context, s graphstore.Session, id string) (types.Count, error) {
	recs, err := s.Execute(ctx, stmtCountryCountOutputs, graphstore.Params{"id": id})
	if err != nil {
		return types.Count{}, fmt.Errorf("counting outputs of country %s: %w", id, err)
	}
	return assemble.Count(recs), nil
}

func (r *CountryRepository) countAll(ctx context.Context, s graphstore.Session) (int, error) {
	recs, err := s.Execute(ctx, stmtCountryCountAll, graphstore.Params{})
	if err != nil {
		return 0, fmt.Errorf("counting countries: %w", err)
	}
	return assemble.Total(recs), nil
}

func (r *CountryRepository) list(ctx context.Context, s graphstore.Session, page filter.Page) ([]types.Country, error) {
	recs, err := s.Execute(ctx, stmtCountryList, pageParams(graphstore.Params{}, page))
	if err != nil {
		return nil, fmt.Errorf("listing countries: %w", err)
	}
	return paging.Slice(assemble.CountryRows(recs), filter.Page{Limit: page.Limit}), nil
}

func validCountryID(id string) error {
	if err := requireID("country", id); err != nil {
		return err
	}
	_, err := filter.ParseCountry(id)
	return err
}
