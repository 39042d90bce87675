// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paging implements the shared windowing and counting policy of
// every list response: the {meta, results} shape, zero-filled per-type
// counts and the single-field total.
package paging

import (
	"github.com/pdiddy/research-index/internal/filter"
	"github.com/pdiddy/research-index/pkg/types"
)

// Tally builds a complete Count from raw per-label rows. Every category is
// present, labels outside the known set are folded into other, and Total
// is computed here as the sum of the categories.
func Tally(rows map[string]int) types.Count {
	var c types.Count
	for label, n := range rows {
		switch types.ResultType(label) {
		case types.ResultPublication:
			c.Publication += n
		case types.ResultDataset:
			c.Dataset += n
		case types.ResultSoftware:
			c.Software += n
		default:
			c.Other += n
		}
	}
	c.Total = c.Publication + c.Dataset + c.Software + c.Other
	return c
}

// OutputMeta builds the meta block of an output page.
func OutputMeta(count types.Count, page filter.Page, rt types.ResultType) types.OutputMeta {
	return types.OutputMeta{Count: count, Skip: page.Skip, Limit: page.Limit, ResultType: rt}
}

// ListMeta builds the meta block of a single-entity listing.
func ListMeta(total int, page filter.Page) types.ListMeta {
	return types.ListMeta{Count: types.Total{Total: total}, Skip: page.Skip, Limit: page.Limit}
}

// NewList wraps results with meta. A nil slice becomes an empty one so
// the results field is never null.
func NewList[M any, T any](meta M, results []T) types.List[M, T] {
	if results == nil {
		results = []T{}
	}
	return types.List[M, T]{Meta: meta, Results: results}
}

// Slice returns the page window of items. It is used when a store returns
// more rows than were requested.
func Slice[T any](items []T, page filter.Page) []T {
	if page.Skip >= len(items) {
		return []T{}
	}
	end := page.Skip + page.Limit
	if end > len(items) || end < page.Skip {
		end = len(items)
	}
	return items[page.Skip:end]
}
