// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"regexp"
	"strings"
	"testing"

	"github.com/pdiddy/research-index/internal/graphstore"
)

var allStatements = []graphstore.Statement{
	stmtAuthorNode, stmtAuthorCollaborators, stmtAuthorOutputCounts, stmtAuthorPublications,
	stmtAuthorAll, stmtAuthorCountAll,
	stmtOutputNode, stmtOutputAuthors, stmtOutputCount, stmtOutputByType, stmtOutputByCountry,
	stmtCountryNode, stmtCountryCountOutputs, stmtCountryCountAll, stmtCountryList,
	stmtWorkstreamDetail, stmtWorkstreamList, stmtWorkstreamCountMembers,
}

func TestStatementsHaveBothRenditions(t *testing.T) {
	seen := map[string]bool{}
	for _, stmt := range allStatements {
		if stmt.Name == "" {
			t.Fatal("statement without a name")
		}
		if seen[stmt.Name] {
			t.Errorf("duplicate statement name %q", stmt.Name)
		}
		seen[stmt.Name] = true
		if strings.TrimSpace(stmt.Cypher) == "" || strings.TrimSpace(stmt.SQL) == "" {
			t.Errorf("%s: both Cypher and SQL renditions are required", stmt.Name)
		}
	}
}

var (
	asAlias    = regexp.MustCompile(`(?i)\bAS\s+([A-Za-z_]\w*)`)
	bareIdent  = regexp.MustCompile(`^[A-Za-z_]\w*$`)
	propAccess = regexp.MustCompile(`\b([A-Za-z_]\w*)\.[A-Za-z_]\w*`)
	pageClause = regexp.MustCompile(`\b(SKIP|LIMIT)\b`)
)

// An ORDER BY that follows the final RETURN may only refer to projected
// names.
func TestCypherOrderByUsesProjectedNames(t *testing.T) {
	for _, stmt := range allStatements {
		cypher := stmt.Cypher
		ret := strings.LastIndex(cypher, "RETURN ")
		if ret < 0 {
			t.Errorf("%s: no RETURN clause", stmt.Name)
			continue
		}
		tail := cypher[ret+len("RETURN "):]
		order := strings.Index(tail, "ORDER BY ")
		if order < 0 {
			continue
		}

		projection := tail[:order]
		aliases := map[string]bool{}
		for _, m := range asAlias.FindAllStringSubmatch(projection, -1) {
			aliases[m[1]] = true
		}
		for _, item := range strings.Split(projection, ",") {
			if item = strings.TrimSpace(item); bareIdent.MatchString(item) {
				aliases[item] = true
			}
		}

		terms := tail[order+len("ORDER BY "):]
		if loc := pageClause.FindStringIndex(terms); loc != nil {
			terms = terms[:loc[0]]
		}
		for _, m := range propAccess.FindAllStringSubmatch(terms, -1) {
			if !aliases[m[1]] {
				t.Errorf("%s: ORDER BY refers to %q, which is not projected by RETURN", stmt.Name, m[0])
			}
		}
	}
}
