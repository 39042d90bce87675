// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pdiddy/research-index/internal/filter"
	"github.com/pdiddy/research-index/internal/repository"
	"github.com/pdiddy/research-index/pkg/types"
)

// DefaultResultType is applied when a route that takes result_type gets none.
const DefaultResultType = types.ResultPublication

func registerRoutes(e *echo.Echo, h *handler) {
	g := e.Group("/api")

	g.GET("/authors", h.ListAuthors)
	g.GET("/authors/:id", h.GetAuthor)
	g.GET("/outputs", h.ListOutputs)
	g.GET("/outputs/:id", h.GetOutput)
	g.GET("/countries", h.ListCountries)
	g.GET("/countries/:id", h.GetCountry)
	g.GET("/workstreams", h.ListWorkstreams)
	g.GET("/workstreams/:id", h.GetWorkstream)
}

type handler struct {
	q repository.Querier
}

// ListAuthors handles GET /api/authors.
func (h *handler) ListAuthors(c echo.Context) error {
	skip, limit, err := pageQuery(c)
	if err != nil {
		return err
	}
	list, err := h.q.ListAuthors(c.Request().Context(), skip, limit, c.QueryParams()["workstream"])
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// GetAuthor handles GET /api/authors/:id.
func (h *handler) GetAuthor(c echo.Context) error {
	skip, limit, err := pageQuery(c)
	if err != nil {
		return err
	}
	view, err := h.q.GetAuthor(c.Request().Context(), c.Param("id"), resultTypeQuery(c), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ListOutputs handles GET /api/outputs.
func (h *handler) ListOutputs(c echo.Context) error {
	skip, limit, err := pageQuery(c)
	if err != nil {
		return err
	}
	list, err := h.q.ListOutputs(c.Request().Context(), skip, limit, resultTypeQuery(c), c.QueryParam("country"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// GetOutput handles GET /api/outputs/:id.
func (h *handler) GetOutput(c echo.Context) error {
	out, err := h.q.GetOutput(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// ListCountries handles GET /api/countries.
func (h *handler) ListCountries(c echo.Context) error {
	skip, limit, err := pageQuery(c)
	if err != nil {
		return err
	}
	list, err := h.q.ListCountries(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// GetCountry handles GET /api/countries/:id.
func (h *handler) GetCountry(c echo.Context) error {
	skip, limit, err := pageQuery(c)
	if err != nil {
		return err
	}
	view, err := h.q.GetCountry(c.Request().Context(), c.Param("id"), skip, limit, resultTypeQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ListWorkstreams handles GET /api/workstreams.
func (h *handler) ListWorkstreams(c echo.Context) error {
	skip, limit, err := pageQuery(c)
	if err != nil {
		return err
	}
	list, err := h.q.ListWorkstreams(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// GetWorkstream handles GET /api/workstreams/:id.
func (h *handler) GetWorkstream(c echo.Context) error {
	skip, limit, err := pageQuery(c)
	if err != nil {
		return err
	}
	view, err := h.q.GetWorkstream(c.Request().Context(), c.Param("id"), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// pageQuery reads skip (default 0) and limit (default 20). Range checks are
// left to the repositories; only malformed integers are rejected here.
func pageQuery(c echo.Context) (skip, limit int, err error) {
	if skip, err = intQuery(c, "skip", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = intQuery(c, "limit", filter.DefaultLimit); err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

func intQuery(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", filter.ErrInvalidFilter, name, raw)
	}
	return n, nil
}

// resultTypeQuery reads result_type, accepting type as an alias, and
// defaults to publication.
func resultTypeQuery(c echo.Context) string {
	if rt := c.QueryParam("result_type"); rt != "" {
		return rt
	}
	if rt := c.QueryParam("type"); rt != "" {
		return rt
	}
	return string(DefaultResultType)
}
