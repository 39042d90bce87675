// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-index/internal/graphstore"
	"github.com/pdiddy/research-index/pkg/types"
)

func author(id, last string) graphstore.Record {
	return graphstore.Record{"uuid": id, "first_name": "F" + id, "last_name": last}
}

func entry(n graphstore.Record, rank any) graphstore.Record {
	return graphstore.Record{"node": n, "rank": rank}
}

func ids(refs []types.AuthorRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.ID
	}
	return out
}

func TestRankedAuthorsOrder(t *testing.T) {
	got := RankedAuthors([]graphstore.Record{
		entry(author("A3", "C"), int64(3)),
		entry(author("A1", "A"), int64(1)),
		entry(nil, nil),
		entry(author("A9", "Z"), nil),
		entry(author("A2", "B"), float64(2)),
		entry(author("A0", "B"), int64(2)),
	})
	assert.Equal(t, []string{"A1", "A0", "A2", "A3", "A9"}, ids(got))
}

func TestRankedAuthorsDedupeKeepsLowestRank(t *testing.T) {
	got := RankedAuthors([]graphstore.Record{
		entry(author("A2", "B"), int64(1)),
		entry(author("A1", "A"), int64(2)),
		entry(author("A2", "B"), int64(5)),
	})
	assert.Equal(t, []string{"A2", "A1"}, ids(got))
}

func TestCollaboratorsInvariants(t *testing.T) {
	var rows []graphstore.Record
	for i, id := range []string{"B1", "B2", "B3", "B4", "B5", "B6", "B7"} {
		rows = append(rows, graphstore.Record{"author": author(id, id), "collaborations": int64(10 - i)})
	}
	rows = append(rows,
		graphstore.Record{"author": author("SELF", "S"), "collaborations": int64(99)},
		graphstore.Record{"author": author("B7", "B7"), "collaborations": int64(20)},
		graphstore.Record{"author": nil},
	)

	got := Collaborators("SELF", rows)
	require.Len(t, got, MaxCollaborators)

	seen := map[string]bool{}
	for _, c := range got {
		assert.NotEqual(t, "SELF", c.ID)
		assert.False(t, seen[c.ID], "duplicate collaborator %s", c.ID)
		seen[c.ID] = true
	}
	// B7's two rows merge to 24, the most frequent.
	assert.Equal(t, []string{"B7", "B1", "B2", "B3", "B4"}, ids(got))
}

func TestCollaboratorsTieBreakByID(t *testing.T) {
	got := Collaborators("X", []graphstore.Record{
		{"author": author("C", "c"), "collaborations": int64(1)},
		{"author": author("A", "a"), "collaborations": int64(1)},
		{"author": author("B", "b"), "collaborations": int64(2)},
	})
	assert.Equal(t, []string{"B", "A", "C"}, ids(got))
}

func TestOutputsSortedByYearDescending(t *testing.T) {
	rec := func(id string, year any) graphstore.Record {
		return graphstore.Record{"output": graphstore.Record{"uuid": id, "publication_year": year}}
	}
	got := Outputs([]graphstore.Record{
		rec("P1", int64(2019)),
		rec("P2", nil),
		rec("P3", int64(2023)),
		rec("P4", int64(2019)),
		rec("P3", int64(2023)),
		{"output": nil},
	})

	var order []string
	for _, o := range got {
		order = append(order, o.ID)
	}
	assert.Equal(t, []string{"P3", "P1", "P4", "P2"}, order)
}

func TestOutputRowAttachesAuthorsAndCountries(t *testing.T) {
	rec := graphstore.Record{
		"output": graphstore.Record{"uuid": "P1", "title": "T", "result_type": "publication", "doi": "10.1/x"},
		"authors": []any{
			map[string]any{"node": map[string]any{"uuid": "A2"}, "rank": int64(2)},
			map[string]any{"node": map[string]any{"uuid": "A1"}, "rank": int64(1)},
		},
		"countries": []any{
			map[string]any{"id": "KEN", "name": "Kenya"},
			nil,
			map[string]any{"id": "KEN", "name": "Kenya"},
		},
	}
	o, ok := OutputRow(rec)
	require.True(t, ok)
	assert.Equal(t, []string{"A1", "A2"}, ids(o.Authors))
	require.Len(t, o.Countries, 1)
	assert.Equal(t, "KEN", o.Countries[0].ID)
	assert.Equal(t, types.ResultPublication, o.ResultType)
}

func TestOutputWithoutRelationsSerializesEmptyLists(t *testing.T) {
	o, ok := OutputRow(graphstore.Record{"output": graphstore.Record{"uuid": "P9"}})
	require.True(t, ok)
	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"authors":[]`)
	assert.Contains(t, string(data), `"countries":[]`)
}

func TestCountZeroFilled(t *testing.T) {
	assert.Equal(t, types.Count{}, Count(nil))

	got := Count([]graphstore.Record{
		{"result_type": "publication", "count": int64(2)},
		{"result_type": "weird", "count": int64(1)},
		{"result_type": nil, "count": int64(1)},
	})
	assert.Equal(t, types.Count{Total: 4, Publication: 2, Other: 2}, got)
}

func TestTotal(t *testing.T) {
	assert.Equal(t, 0, Total(nil))
	assert.Equal(t, 7, Total([]graphstore.Record{{"total": int64(7)}}))
}

func TestAuthorSummaries(t *testing.T) {
	got := AuthorSummaries([]graphstore.Record{
		{"author": author("A2", "Turing"), "affiliations": []any{
			map[string]any{"id": "P1", "name": "ILRI", "ccg_partner": int64(1)},
			map[string]any{"id": "P1", "name": "ILRI"},
		}},
		{"author": author("A1", "Lovelace"), "workstreams": []any{map[string]any{"id": "u1", "name": "Energy"}}},
		{"author": author("A0", "Lovelace")},
	})
	require.Len(t, got, 3)
	assert.Equal(t, "A0", got[0].ID)
	assert.Equal(t, "A1", got[1].ID)
	assert.Equal(t, "A2", got[2].ID)
	require.Len(t, got[2].Affiliations, 1)
	require.NotNil(t, got[2].Affiliations[0].CCGPartner)
	assert.True(t, *got[2].Affiliations[0].CCGPartner)
	assert.Equal(t, []types.Workstream{{ID: "u1", Name: "Energy"}}, got[1].Workstreams)
	assert.NotNil(t, got[0].Affiliations)
}

func TestWorkstreamRowsOrder(t *testing.T) {
	row := func(id, name, parent string) graphstore.Record {
		r := graphstore.Record{"workstream": graphstore.Record{"id": id, "name": name}}
		if parent != "" {
			r["parent_name"] = parent
		}
		return r
	}
	got := WorkstreamRows([]graphstore.Record{
		row("u3", "Storage", "Energy"),
		row("u2", "Grid", "Energy"),
		row("u1", "Energy", ""),
		row("u4", "Apps", "Water"),
	})
	var order []string
	for _, w := range got {
		order = append(order, w.ID)
	}
	assert.Equal(t, []string{"u1", "u2", "u3", "u4"}, order)
}

func TestChildrenDropsSelfAndDuplicates(t *testing.T) {
	assert.Equal(t, []string{"u2", "u3"}, Children("u1", []string{"u3", "u1", "", "u2", "u3"}))
	assert.Equal(t, []string{}, Children("u1", nil))
}

func TestCountryViewReplacesCount(t *testing.T) {
	list := types.OutputList{
		Meta: types.OutputMeta{Count: types.Count{Total: 100, Publication: 100}, Skip: 0, Limit: 20, ResultType: types.ResultPublication},
	}
	scoped := types.Count{Total: 1, Publication: 1}
	v := CountryView(types.Country{ID: "KEN", Name: "Kenya"}, list, scoped)

	assert.Equal(t, scoped, v.Meta.Count)
	assert.Equal(t, types.ResultPublication, v.Meta.ResultType)
	assert.NotNil(t, v.Results)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	var keys map[string]any
	require.NoError(t, json.Unmarshal(data, &keys))
	for _, k := range []string{"id", "name", "meta", "results"} {
		assert.Contains(t, keys, k)
	}
}
