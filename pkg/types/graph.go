// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of the research index:
// graph entities as they are read from the store, the nested view objects
// returned by every query operation, counts, and service configuration.
package types

// ResultType classifies a research output.
type ResultType string

const (
	ResultPublication ResultType = "publication"
	ResultDataset     ResultType = "dataset"
	ResultSoftware    ResultType = "software"
	ResultOther       ResultType = "other"
)

// ResultTypes lists every valid ResultType in display order.
var ResultTypes = []ResultType{ResultPublication, ResultDataset, ResultSoftware, ResultOther}

// Valid reports whether t is one of the four known result types.
func (t ResultType) Valid() bool {
	switch t {
	case ResultPublication, ResultDataset, ResultSoftware, ResultOther:
		return true
	}
	return false
}

// Partner is an affiliation an author is a member of.
type Partner struct {
	// ID is the partner identifier in the graph.
	ID string `json:"id" yaml:"id"`

	// Name is the organisation name.
	Name string `json:"name" yaml:"name"`

	// ROR is the Research Organization Registry identifier, when known.
	ROR string `json:"ror,omitempty" yaml:"ror,omitempty"`

	// CCGPartner flags consortium partners. Nil when the graph has no value.
	CCGPartner *bool `json:"ccg_partner,omitempty" yaml:"ccg_partner,omitempty"`
}

// Workstream is a unit of the research programme authors are members of.
type Workstream struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// AuthorRef is the short form of an author used inside other views
// (output author lists, collaborator lists).
type AuthorRef struct {
	// ID is the author's opaque identifier (the uuid property in the graph).
	ID string `json:"uuid" yaml:"uuid"`

	// FirstName is the author's given name.
	FirstName string `json:"first_name" yaml:"first_name"`

	// LastName is the author's family name.
	LastName string `json:"last_name" yaml:"last_name"`

	// Orcid is the author's ORCID identifier, when known.
	Orcid string `json:"orcid,omitempty" yaml:"orcid,omitempty"`
}

// Country is a country node. ID is a three-letter uppercase code.
type Country struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	OfficialName string   `json:"official_name,omitempty" yaml:"official_name,omitempty"`
	Dbpedia      string   `json:"dbpedia,omitempty" yaml:"dbpedia,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}
