// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter validates and normalizes caller-supplied query filters
// before any graph traversal runs.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/research-index/pkg/types"
)

// ErrInvalidFilter reports a filter that failed normalization.
var ErrInvalidFilter = errors.New("invalid filter")

// MaxLimit caps the page size a caller may request.
const MaxLimit = 1000

// DefaultLimit is the page size used when a caller supplies none.
const DefaultLimit = 20

var countryPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Page is a validated skip/limit window.
type Page struct {
	Skip  int
	Limit int
}

// NewPage validates skip >= 0 and 1 <= limit <= MaxLimit.
func NewPage(skip, limit int) (Page, error) {
	if skip < 0 {
		return Page{}, fmt.Errorf("%w: skip must be >= 0, got %d", ErrInvalidFilter, skip)
	}
	if limit < 1 {
		return Page{}, fmt.Errorf("%w: limit must be >= 1, got %d", ErrInvalidFilter, limit)
	}
	if limit > MaxLimit {
		return Page{}, fmt.Errorf("%w: limit must be <= %d, got %d", ErrInvalidFilter, MaxLimit, limit)
	}
	return Page{Skip: skip, Limit: limit}, nil
}

// ParseResultType accepts one of the four result type labels. The empty
// string means no filter.
func ParseResultType(s string) (types.ResultType, error) {
	if s == "" {
		return "", nil
	}
	rt := types.ResultType(s)
	if !rt.Valid() {
		return "", fmt.Errorf("%w: result type %q is not one of publication, dataset, software, other", ErrInvalidFilter, s)
	}
	return rt, nil
}

// ParseCountry accepts a three-letter uppercase country code. The empty
// string means no filter. Lowercase codes are rejected, not folded.
func ParseCountry(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if !countryPattern.MatchString(s) {
		return "", fmt.Errorf("%w: country %q must be three uppercase letters", ErrInvalidFilter, s)
	}
	return s, nil
}

// Workstreams normalizes a workstream identifier set: values may be
// comma-separated, blanks are dropped and duplicates removed keeping the
// first occurrence. Identifiers are otherwise free-form.
func Workstreams(ids []string) []string {
	var (
		out  []string
		seen = map[string]bool{}
	)
	for _, raw := range ids {
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
