package export

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-index/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML form, consumable by Pandoc
// and reference managers.
type CSLItem struct {
	ID        string    `yaml:"id"`
	Type      string    `yaml:"type"`
	Title     string    `yaml:"title"`
	Author    []CSLName `yaml:"author,omitempty"`
	Abstract  string    `yaml:"abstract,omitempty"`
	Issued    *CSLDate  `yaml:"issued,omitempty"`
	DOI       string    `yaml:"DOI,omitempty"`
	Publisher string    `yaml:"publisher,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL date-parts form. Only the known leading parts
// (year, year-month, year-month-day) are written.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes outputs as a CSL-YAML list to w.
func WriteCSL(w io.Writer, outputs []types.OutputView) error {
	items := make([]CSLItem, len(outputs))
	for i, o := range outputs {
		items[i] = ToCSLItem(o)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// ToCSLItem converts an output to a CSL item. The rank order of authors is
// kept.
func ToCSLItem(o types.OutputView) CSLItem {
	item := CSLItem{
		ID:        o.ID,
		Type:      cslType(o.ResultType),
		Title:     o.Title,
		Abstract:  o.Abstract,
		Publisher: o.Publisher,
	}
	if strings.HasPrefix(o.DOI, "10.") {
		item.DOI = o.DOI
	}
	for _, a := range o.Authors {
		item.Author = append(item.Author, cslName(a))
	}
	if o.PublicationYear != nil {
		parts := []int{*o.PublicationYear}
		if o.PublicationMonth != nil {
			parts = append(parts, *o.PublicationMonth)
			if o.PublicationDay != nil {
				parts = append(parts, *o.PublicationDay)
			}
		}
		item.Issued = &CSLDate{DateParts: [][]int{parts}}
	}
	return item
}

func cslType(rt types.ResultType) string {
	switch rt {
	case types.ResultPublication:
		return "article"
	case types.ResultDataset:
		return "dataset"
	case types.ResultSoftware:
		return "software"
	}
	return "document"
}

// cslName uses family/given when both are known and falls back to the
// literal field otherwise.
func cslName(a types.AuthorRef) CSLName {
	first, last := strings.TrimSpace(a.FirstName), strings.TrimSpace(a.LastName)
	switch {
	case first != "" && last != "":
		return CSLName{Given: first, Family: last}
	case last != "":
		return CSLName{Literal: last}
	}
	return CSLName{Literal: first}
}
