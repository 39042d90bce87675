// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-index/internal/filter"
	"github.com/pdiddy/research-index/internal/graphstore"
	"github.com/pdiddy/research-index/internal/repository"
	"github.com/pdiddy/research-index/pkg/types"
)

// stubQuerier records the arguments of the last call and returns err, if set.
type stubQuerier struct {
	err   error
	calls int

	skip, limit int
	id          string
	resultType  string
	country     string
	workstreams []string
}

func (s *stubQuerier) record(id string, skip, limit int) {
	s.calls++
	s.id, s.skip, s.limit = id, skip, limit
}

func (s *stubQuerier) ListAuthors(_ context.Context, skip, limit int, ws []string) (types.AuthorList, error) {
	s.record("", skip, limit)
	s.workstreams = ws
	return types.AuthorList{Meta: types.ListMeta{Skip: skip, Limit: limit}, Results: []types.AuthorSummary{}}, s.err
}

func (s *stubQuerier) GetAuthor(_ context.Context, id, rt string, skip, limit int) (types.AuthorView, error) {
	s.record(id, skip, limit)
	s.resultType = rt
	return types.AuthorView{AuthorSummary: types.AuthorSummary{AuthorRef: types.AuthorRef{ID: id}}}, s.err
}

func (s *stubQuerier) ListOutputs(_ context.Context, skip, limit int, rt, country string) (types.OutputList, error) {
	s.record("", skip, limit)
	s.resultType, s.country = rt, country
	return types.OutputList{Results: []types.OutputView{}}, s.err
}

func (s *stubQuerier) GetOutput(_ context.Context, id string) (types.OutputView, error) {
	s.record(id, 0, 0)
	return types.OutputView{ID: id}, s.err
}

func (s *stubQuerier) ListCountries(_ context.Context, skip, limit int) (types.CountryList, error) {
	s.record("", skip, limit)
	return types.CountryList{Results: []types.Country{}}, s.err
}

func (s *stubQuerier) GetCountry(_ context.Context, id string, skip, limit int, rt string) (types.CountryView, error) {
	s.record(id, skip, limit)
	s.resultType = rt
	return types.CountryView{Country: types.Country{ID: id}}, s.err
}

func (s *stubQuerier) ListWorkstreams(_ context.Context, skip, limit int) (types.WorkstreamList, error) {
	s.record("", skip, limit)
	return types.WorkstreamList{Results: []types.Workstream{}}, s.err
}

func (s *stubQuerier) GetWorkstream(_ context.Context, id string, skip, limit int) (types.WorkstreamView, error) {
	s.record(id, skip, limit)
	return types.WorkstreamView{WorkstreamDetail: types.WorkstreamDetail{ID: id}}, s.err
}

func newTestServer(q repository.Querier, opts Options) *Server {
	return NewServer(types.DefaultServiceConfig().Server, q, nil, opts)
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestListOutputs_Defaults(t *testing.T) {
	q := &stubQuerier{}
	rec := get(t, newTestServer(q, Options{}), "/api/outputs")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, q.skip)
	assert.Equal(t, filter.DefaultLimit, q.limit)
	assert.Equal(t, "publication", q.resultType)
	assert.Empty(t, q.country)
}

func TestListOutputs_TypeAlias(t *testing.T) {
	q := &stubQuerier{}
	get(t, newTestServer(q, Options{}), "/api/outputs?type=dataset&country=KEN&skip=5&limit=7")

	assert.Equal(t, "dataset", q.resultType)
	assert.Equal(t, "KEN", q.country)
	assert.Equal(t, 5, q.skip)
	assert.Equal(t, 7, q.limit)
}

func TestListOutputs_ResultTypeWinsOverAlias(t *testing.T) {
	q := &stubQuerier{}
	get(t, newTestServer(q, Options{}), "/api/outputs?result_type=software&type=dataset")
	assert.Equal(t, "software", q.resultType)
}

func TestMalformedPageIsInvalidFilter(t *testing.T) {
	for _, target := range []string{
		"/api/authors?limit=ten",
		"/api/outputs?skip=-x",
		"/api/countries/KEN?limit=1.5",
	} {
		t.Run(target, func(t *testing.T) {
			q := &stubQuerier{}
			rec := get(t, newTestServer(q, Options{}), target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid_filter", decodeError(t, rec).Error.Code)
			assert.Zero(t, q.calls, "querier must not be called for malformed input")
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid filter", fmt.Errorf("%w: limit out of range", filter.ErrInvalidFilter), http.StatusBadRequest, "invalid_filter"},
		{"not found", fmt.Errorf("author X: %w", repository.ErrNotFound), http.StatusNotFound, "not_found"},
		{"empty result", repository.ErrEmptyResult, http.StatusNotFound, "empty_result"},
		{"store unavailable", fmt.Errorf("acquire: %w", graphstore.ErrStoreUnavailable), http.StatusServiceUnavailable, "store_unavailable"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &stubQuerier{err: tt.err}
			rec := get(t, newTestServer(q, Options{}), "/api/authors/X")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Error.Code)
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	q := &stubQuerier{err: errors.New("driver exploded: password=hunter2")}
	rec := get(t, newTestServer(q, Options{}), "/api/outputs/P1")

	body := decodeError(t, rec)
	assert.Equal(t, "An internal error occurred", body.Error.Message)
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newTestServer(&stubQuerier{}, Options{}), "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error.Code)
}

func TestListAuthors_Workstreams(t *testing.T) {
	q := &stubQuerier{}
	get(t, newTestServer(q, Options{}), "/api/authors?workstream=u1&workstream=u2,u3")
	assert.Equal(t, []string{"u1", "u2,u3"}, q.workstreams)
}

func TestTrailingSlash(t *testing.T) {
	q := &stubQuerier{}
	rec := get(t, newTestServer(q, Options{}), "/api/countries/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, q.calls)
}

func TestPathParams(t *testing.T) {
	q := &stubQuerier{}
	srv := newTestServer(q, Options{})

	get(t, srv, "/api/workstreams/u1?skip=2")
	assert.Equal(t, "u1", q.id)
	assert.Equal(t, 2, q.skip)

	get(t, srv, "/api/countries/UGA?result_type=dataset")
	assert.Equal(t, "UGA", q.id)
	assert.Equal(t, "dataset", q.resultType)
}

func TestRequestIDHeader(t *testing.T) {
	rec := get(t, newTestServer(&stubQuerier{}, Options{}), "/api/workstreams")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestHealth(t *testing.T) {
	ok := newTestServer(&stubQuerier{}, Options{Health: func(context.Context) error { return nil }})
	assert.Equal(t, http.StatusOK, get(t, ok, "/health").Code)

	down := newTestServer(&stubQuerier{}, Options{Health: func(context.Context) error { return graphstore.ErrStoreUnavailable }})
	assert.Equal(t, http.StatusServiceUnavailable, get(t, down, "/health").Code)
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := graphstore.NewMetrics()
	require.NoError(t, m.Register(reg))

	rec := get(t, newTestServer(&stubQuerier{}, Options{Gatherer: reg}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "research_index_graph_open_sessions")

	cfg := types.DefaultServiceConfig().Server
	cfg.Metrics = false
	off := NewServer(cfg, &stubQuerier{}, nil, Options{Gatherer: reg})
	assert.Equal(t, http.StatusNotFound, get(t, off, "/metrics").Code)
}

func TestEndToEndSQLite(t *testing.T) {
	store, err := graphstore.NewSQLiteStore(filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })

	f, err := os.Open("../repository/testdata/graph.yaml")
	require.NoError(t, err)
	defer f.Close()
	_, err = graphstore.LoadFixture(context.Background(), store, f)
	require.NoError(t, err)

	srv := newTestServer(repository.New(store, nil), Options{Health: store.Ping})

	rec := get(t, srv, "/api/authors")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var authors types.AuthorList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &authors))
	assert.Equal(t, 4, authors.Meta.Count.Total)

	rec = get(t, srv, "/api/countries/KEN")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var ken types.CountryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ken))
	assert.Equal(t, 2, ken.Meta.Count.Total)
	assert.Equal(t, types.ResultPublication, ken.Meta.ResultType)

	rec = get(t, srv, "/api/countries/ZZZ")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, srv, "/api/countries/ken")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "invalid_filter"))
}
