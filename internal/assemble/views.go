// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"github.com/pdiddy/research-index/pkg/types"
)

// AuthorView merges an author's core fields, collaborators and output page.
func AuthorView(summary types.AuthorSummary, collaborators []types.AuthorRef, outputs types.OutputList) types.AuthorView {
	if collaborators == nil {
		collaborators = []types.AuthorRef{}
	}
	return types.AuthorView{
		AuthorSummary: summary,
		Collaborators: collaborators,
		Outputs:       outputs,
	}
}

// CountryView merges a country with a page of its outputs. The page's
// count is replaced by the country-scoped count.
func CountryView(country types.Country, outputs types.OutputList, scoped types.Count) types.CountryView {
	meta := outputs.Meta
	meta.Count = scoped
	results := outputs.Results
	if results == nil {
		results = []types.OutputView{}
	}
	return types.CountryView{Country: country, Meta: meta, Results: results}
}

// WorkstreamView merges a workstream detail with its member page.
func WorkstreamView(detail types.WorkstreamDetail, members types.AuthorList) types.WorkstreamView {
	return types.WorkstreamView{WorkstreamDetail: detail, Members: members}
}
