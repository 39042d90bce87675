// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"cmp"
	"slices"

	"github.com/pdiddy/research-index/internal/graphstore"
	"github.com/pdiddy/research-index/internal/paging"
	"github.com/pdiddy/research-index/pkg/types"
)

// MaxCollaborators is the number of collaborators kept on an author profile.
const MaxCollaborators = 5

// RankedAuthors decodes a collected list of {node, rank} entries into an
// author list in ascending rank order. Entries without an author node are
// skipped, an author listed twice keeps the lower rank, missing ranks sort
// last and equal ranks are ordered by uuid.
func RankedAuthors(entries []graphstore.Record) []types.AuthorRef {
	type ranked struct {
		ref  types.AuthorRef
		rank *int
	}
	byID := map[string]int{}
	var list []ranked
	for _, e := range entries {
		n := e.Node("node")
		if n == nil {
			continue
		}
		ref := AuthorRef(n)
		if ref.ID == "" {
			continue
		}
		rank := e.IntPtr("rank")
		if i, ok := byID[ref.ID]; ok {
			if lowerRank(rank, list[i].rank) {
				list[i].rank = rank
			}
			continue
		}
		byID[ref.ID] = len(list)
		list = append(list, ranked{ref: ref, rank: rank})
	}

	slices.SortStableFunc(list, func(a, b ranked) int {
		switch {
		case a.rank == nil && b.rank != nil:
			return 1
		case a.rank != nil && b.rank == nil:
			return -1
		case a.rank != nil && b.rank != nil && *a.rank != *b.rank:
			return cmp.Compare(*a.rank, *b.rank)
		}
		return cmp.Compare(a.ref.ID, b.ref.ID)
	})

	out := make([]types.AuthorRef, len(list))
	for i, r := range list {
		out[i] = r.ref
	}
	return out
}

func lowerRank(candidate, current *int) bool {
	if candidate == nil {
		return false
	}
	return current == nil || *candidate < *current
}

// OutputRow assembles one output record: the output node, its collected
// {node, rank} author entries and its collected country nodes.
func OutputRow(rec graphstore.Record) (types.OutputView, bool) {
	n := rec.Node("output")
	if n == nil {
		return types.OutputView{}, false
	}
	o := Output(n)
	o.Authors = RankedAuthors(rec.Nodes("authors"))
	o.Countries = Countries(rec.Nodes("countries"))
	return o, true
}

// Outputs assembles output records, drops duplicates and sorts them by
// publication year descending. Null years sort last; equal years are
// ordered by uuid.
func Outputs(records []graphstore.Record) []types.OutputView {
	out := []types.OutputView{}
	seen := map[string]bool{}
	for _, rec := range records {
		o, ok := OutputRow(rec)
		if !ok || seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		out = append(out, o)
	}
	SortOutputs(out)
	return out
}

// SortOutputs orders outputs by publication year descending, null years
// last, then by uuid.
func SortOutputs(outputs []types.OutputView) {
	slices.SortStableFunc(outputs, func(a, b types.OutputView) int {
		ay, by := a.PublicationYear, b.PublicationYear
		switch {
		case ay == nil && by != nil:
			return 1
		case ay != nil && by == nil:
			return -1
		case ay != nil && by != nil && *ay != *by:
			return cmp.Compare(*by, *ay)
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// Collaborators assembles co-author rows ({author, collaborations}). The
// queried author is excluded, duplicates are merged by summing their
// counts, and at most MaxCollaborators are returned, most frequent first
// with ties ordered by uuid.
func Collaborators(selfID string, records []graphstore.Record) []types.AuthorRef {
	type collab struct {
		ref   types.AuthorRef
		count int
	}
	byID := map[string]int{}
	var list []collab
	for _, rec := range records {
		n := rec.Node("author")
		if n == nil {
			continue
		}
		ref := AuthorRef(n)
		if ref.ID == "" || ref.ID == selfID {
			continue
		}
		if i, ok := byID[ref.ID]; ok {
			list[i].count += rec.Int("collaborations")
			continue
		}
		byID[ref.ID] = len(list)
		list = append(list, collab{ref: ref, count: rec.Int("collaborations")})
	}

	slices.SortStableFunc(list, func(a, b collab) int {
		if a.count != b.count {
			return cmp.Compare(b.count, a.count)
		}
		return cmp.Compare(a.ref.ID, b.ref.ID)
	})
	if len(list) > MaxCollaborators {
		list = list[:MaxCollaborators]
	}

	out := make([]types.AuthorRef, len(list))
	for i, c := range list {
		out[i] = c.ref
	}
	return out
}

// Count tallies {result_type, count} rows into a zero-filled Count.
func Count(records []graphstore.Record) types.Count {
	rows := make(map[string]int, len(records))
	for _, rec := range records {
		rows[rec.String("result_type")] += rec.Int("count")
	}
	return paging.Tally(rows)
}

// Total reads the single total field of a counting traversal. Zero rows
// count as zero.
func Total(records []graphstore.Record) int {
	if len(records) == 0 {
		return 0
	}
	return records[0].Int("total")
}

// AuthorSummary assembles an author record ({author, affiliations,
// workstreams}).
func AuthorSummary(rec graphstore.Record) (types.AuthorSummary, bool) {
	n := rec.Node("author")
	if n == nil {
		return types.AuthorSummary{}, false
	}
	return types.AuthorSummary{
		AuthorRef:    AuthorRef(n),
		Affiliations: Partners(rec.Nodes("affiliations")),
		Workstreams:  Workstreams(rec.Nodes("workstreams")),
	}, true
}

// AuthorSummaries assembles author records in last name order, ties by uuid.
func AuthorSummaries(records []graphstore.Record) []types.AuthorSummary {
	out := []types.AuthorSummary{}
	seen := map[string]bool{}
	for _, rec := range records {
		a, ok := AuthorSummary(rec)
		if !ok || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	slices.SortStableFunc(out, func(a, b types.AuthorSummary) int {
		return cmp.Or(cmp.Compare(a.LastName, b.LastName), cmp.Compare(a.ID, b.ID))
	})
	return out
}

// CountryRows decodes {country} records in name order, ties by id.
func CountryRows(records []graphstore.Record) []types.Country {
	out := []types.Country{}
	seen := map[string]bool{}
	for _, rec := range records {
		n := rec.Node("country")
		if n == nil {
			continue
		}
		c := Country(n)
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b types.Country) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out
}

// WorkstreamRows decodes {workstream, parent_name} records ordered by
// parent name (no parent first), own name, then id.
func WorkstreamRows(records []graphstore.Record) []types.Workstream {
	type row struct {
		ws     types.Workstream
		parent string
	}
	var rows []row
	seen := map[string]bool{}
	for _, rec := range records {
		n := rec.Node("workstream")
		if n == nil {
			continue
		}
		w := Workstream(n)
		if w.ID == "" || seen[w.ID] {
			continue
		}
		seen[w.ID] = true
		rows = append(rows, row{ws: w, parent: rec.String("parent_name")})
	}
	slices.SortStableFunc(rows, func(a, b row) int {
		return cmp.Or(
			cmp.Compare(a.parent, b.parent),
			cmp.Compare(a.ws.Name, b.ws.Name),
			cmp.Compare(a.ws.ID, b.ws.ID),
		)
	})
	out := make([]types.Workstream, len(rows))
	for i, r := range rows {
		out[i] = r.ws
	}
	return out
}

// Children deduplicates a child id list, dropping blanks and the parent's
// own id, in ascending order.
func Children(selfID string, ids []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, id := range ids {
		if id == "" || id == selfID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// WorkstreamDetail assembles a {workstream, children} record.
func WorkstreamDetail(rec graphstore.Record) (types.WorkstreamDetail, bool) {
	n := rec.Node("workstream")
	if n == nil {
		return types.WorkstreamDetail{}, false
	}
	w := Workstream(n)
	return types.WorkstreamDetail{
		ID:       w.ID,
		Name:     w.Name,
		Children: Children(w.ID, rec.Strings("children")),
	}, true
}

func sortCountries(cs []types.Country) {
	slices.SortStableFunc(cs, func(a, b types.Country) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
