// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble merges the record sets of several traversals into the
// nested view objects returned to callers. It enforces the ordering and
// zero-fill rules regardless of what order a store returned rows in.
package assemble

import (
	"github.com/pdiddy/research-index/internal/graphstore"
	"github.com/pdiddy/research-index/pkg/types"
)

// AuthorRef decodes an Author node.
func AuthorRef(n graphstore.Record) types.AuthorRef {
	return types.AuthorRef{
		ID:        n.String("uuid"),
		FirstName: n.String("first_name"),
		LastName:  n.String("last_name"),
		Orcid:     n.String("orcid"),
	}
}

// Partner decodes a Partner node.
func Partner(n graphstore.Record) types.Partner {
	return types.Partner{
		ID:         n.String("id"),
		Name:       n.String("name"),
		ROR:        n.String("ror"),
		CCGPartner: n.BoolPtr("ccg_partner"),
	}
}

// Workstream decodes a Workstream node.
func Workstream(n graphstore.Record) types.Workstream {
	return types.Workstream{ID: n.String("id"), Name: n.String("name")}
}

// Country decodes a Country node.
func Country(n graphstore.Record) types.Country {
	return types.Country{
		ID:           n.String("id"),
		Name:         n.String("name"),
		OfficialName: n.String("official_name"),
		Dbpedia:      n.String("dbpedia"),
		Latitude:     n.FloatPtr("latitude"),
		Longitude:    n.FloatPtr("longitude"),
	}
}

// Output decodes the scalar fields of an Output node. Authors and
// countries are attached by OutputRow.
func Output(n graphstore.Record) types.OutputView {
	return types.OutputView{
		ID:               n.String("uuid"),
		DOI:              n.String("doi"),
		Title:            n.String("title"),
		Abstract:         n.String("abstract"),
		ResultType:       types.ResultType(n.String("result_type")),
		Publisher:        n.String("publisher"),
		PublicationYear:  n.IntPtr("publication_year"),
		PublicationMonth: n.IntPtr("publication_month"),
		PublicationDay:   n.IntPtr("publication_day"),
		Authors:          []types.AuthorRef{},
		Countries:        []types.Country{},
	}
}

// Partners decodes a collected affiliation list, dropping duplicates.
func Partners(nodes []graphstore.Record) []types.Partner {
	out := []types.Partner{}
	seen := map[string]bool{}
	for _, n := range nodes {
		p := Partner(n)
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

// Workstreams decodes a collected workstream list, dropping duplicates.
func Workstreams(nodes []graphstore.Record) []types.Workstream {
	out := []types.Workstream{}
	seen := map[string]bool{}
	for _, n := range nodes {
		w := Workstream(n)
		if w.ID == "" || seen[w.ID] {
			continue
		}
		seen[w.ID] = true
		out = append(out, w)
	}
	return out
}

// Countries decodes a collected country list, dropping duplicates, in
// ascending id order.
func Countries(nodes []graphstore.Record) []types.Country {
	out := []types.Country{}
	seen := map[string]bool{}
	for _, n := range nodes {
		c := Country(n)
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	sortCountries(out)
	return out
}
