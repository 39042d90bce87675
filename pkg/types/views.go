// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Count holds per-result-type output counts. Total is always the sum of
// the four category fields, and every field is present even when zero.
type Count struct {
	Total       int `json:"total" yaml:"total"`
	Publication int `json:"publication" yaml:"publication"`
	Dataset     int `json:"dataset" yaml:"dataset"`
	Software    int `json:"software" yaml:"software"`
	Other       int `json:"other" yaml:"other"`
}

// Get returns the count for one result type.
func (c Count) Get(t ResultType) int {
	switch t {
	case ResultPublication:
		return c.Publication
	case ResultDataset:
		return c.Dataset
	case ResultSoftware:
		return c.Software
	case ResultOther:
		return c.Other
	}
	return 0
}

// Total is the single-field count used by author, country and workstream listings.
type Total struct {
	Total int `json:"total" yaml:"total"`
}

// ListMeta describes a page of a single-entity listing.
type ListMeta struct {
	Count Total `json:"count" yaml:"count"`
	Skip  int   `json:"skip" yaml:"skip"`
	Limit int   `json:"limit" yaml:"limit"`
}

// OutputMeta describes a page of outputs. ResultType is empty when the
// page is not restricted to one result type.
type OutputMeta struct {
	Count      Count      `json:"count" yaml:"count"`
	Skip       int        `json:"skip" yaml:"skip"`
	Limit      int        `json:"limit" yaml:"limit"`
	ResultType ResultType `json:"result_type" yaml:"result_type"`
}

// List is the uniform shape of every list response.
type List[M any, T any] struct {
	Meta    M   `json:"meta" yaml:"meta"`
	Results []T `json:"results" yaml:"results"`
}

// OutputView is an output with its rank-ordered authors and the countries
// it refers to.
type OutputView struct {
	// ID is the output's opaque identifier (the uuid property in the graph).
	ID string `json:"uuid" yaml:"uuid"`

	DOI        string     `json:"doi" yaml:"doi"`
	Title      string     `json:"title" yaml:"title"`
	Abstract   string     `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	ResultType ResultType `json:"result_type" yaml:"result_type"`
	Publisher  string     `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// Publication date parts are independent; any of them may be unknown.
	PublicationYear  *int `json:"publication_year,omitempty" yaml:"publication_year,omitempty"`
	PublicationMonth *int `json:"publication_month,omitempty" yaml:"publication_month,omitempty"`
	PublicationDay   *int `json:"publication_day,omitempty" yaml:"publication_day,omitempty"`

	// Authors is sorted by authorship rank ascending.
	Authors []AuthorRef `json:"authors" yaml:"authors"`

	Countries []Country `json:"countries" yaml:"countries"`
}

// OutputList is a page of outputs.
type OutputList = List[OutputMeta, OutputView]

// AuthorSummary is an author with the affiliations and workstreams they
// are a member of.
type AuthorSummary struct {
	AuthorRef    `yaml:",inline"`
	Affiliations []Partner    `json:"affiliations" yaml:"affiliations"`
	Workstreams  []Workstream `json:"workstreams" yaml:"workstreams"`
}

// AuthorList is a page of authors.
type AuthorList = List[ListMeta, AuthorSummary]

// AuthorView is the full author profile: core fields, the most frequent
// collaborators and a page of the author's outputs.
type AuthorView struct {
	AuthorSummary `yaml:",inline"`
	Collaborators []AuthorRef `json:"collaborators" yaml:"collaborators"`
	Outputs       OutputList  `json:"outputs" yaml:"outputs"`
}

// CountryList is a page of countries.
type CountryList = List[ListMeta, Country]

// CountryView is a country merged with a page of the outputs referring to it.
// Meta.Count is scoped to the country.
type CountryView struct {
	Country `yaml:",inline"`
	Meta    OutputMeta   `json:"meta" yaml:"meta"`
	Results []OutputView `json:"results" yaml:"results"`
}

// WorkstreamList is a page of workstreams.
type WorkstreamList = List[ListMeta, Workstream]

// WorkstreamDetail is a workstream with the ids of its direct child units.
type WorkstreamDetail struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Children []string `json:"children" yaml:"children"`
}

// WorkstreamView is a workstream merged with a page of its members,
// including members of its child units.
type WorkstreamView struct {
	WorkstreamDetail `yaml:",inline"`
	Members          AuthorList `json:"members" yaml:"members"`
}
