// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import "github.com/pdiddy/research-index/internal/graphstore"

// Shared SQL fragments. The output alias is o, the author alias is a.
const (
	outputColumnsSQL = `json(o.props) AS output,
	(SELECT json_group_array(json_object('node', json(b.props), 'rank', e.rank))
	   FROM edges e JOIN nodes b ON b.id = e.src AND b.label = 'Author'
	  WHERE e.dst = o.id AND e.type = 'author_of') AS authors,
	(SELECT json_group_array(json(c.props))
	   FROM edges r JOIN nodes c ON c.id = r.dst AND c.label = 'Country'
	  WHERE r.src = o.id AND r.type = 'REFERS_TO') AS countries`

	outputOrderSQL = `ORDER BY json_extract(o.props, '$.publication_year') IS NULL,
	json_extract(o.props, '$.publication_year') DESC, o.uid`

	resultTypeSQL = `($result_type IS NULL OR json_extract(o.props, '$.result_type') = $result_type)`

	authorColumnsSQL = `json(a.props) AS author,
	(SELECT json_group_array(json(p.props))
	   FROM edges m JOIN nodes p ON p.id = m.dst AND p.label = 'Partner'
	  WHERE m.src = a.id AND m.type = 'member_of') AS affiliations,
	(SELECT json_group_array(json(u.props))
	   FROM edges m JOIN nodes u ON u.id = m.dst AND u.label = 'Workstream'
	  WHERE m.src = a.id AND m.type = 'member_of') AS workstreams`

	// outputTailCypher attaches countries and {node, rank} author entries to
	// an ordered, windowed stream of o.
	outputTailCypher = `
OPTIONAL MATCH (o)-[:REFERS_TO]->(c:Country)
WITH o, collect(DISTINCT c) AS countries
OPTIONAL MATCH (b:Author)-[r:author_of]->(o)
RETURN o AS output, collect({node: b, rank: r.rank}) AS authors, countries
ORDER BY coalesce(output.publication_year, -1) DESC, output.uuid`
)

var (
	outputFields = []string{"output", "authors", "countries"}
	authorFields = []string{"author", "affiliations", "workstreams"}
)

// Author traversals.
var (
	stmtAuthorNode = graphstore.Statement{
		Name: "author.node",
		Cypher: `MATCH (a:Author {uuid: $uuid})
OPTIONAL MATCH (a)-[:member_of]->(p:Partner)
WITH a, collect(DISTINCT p) AS affiliations
OPTIONAL MATCH (a)-[:member_of]->(u:Workstream)
RETURN a AS author, affiliations, collect(DISTINCT u) AS workstreams`,
		SQL: `SELECT ` + authorColumnsSQL + `
FROM nodes a
WHERE a.label = 'Author' AND a.uid = $uuid`,
		JSONFields: authorFields,
	}

	stmtAuthorCollaborators = graphstore.Statement{
		Name: "author.collaborators",
		Cypher: `MATCH (a:Author {uuid: $uuid})-[:author_of]->(o:Output)<-[:author_of]-(b:Author)
WHERE b.uuid <> $uuid AND ($result_type IS NULL OR o.result_type = $result_type)
RETURN b AS author, count(DISTINCT o) AS collaborations
ORDER BY collaborations DESC, author.uuid
LIMIT $limit`,
		SQL: `SELECT json(b.props) AS author, count(DISTINCT o.id) AS collaborations
FROM nodes a
JOIN edges ea ON ea.src = a.id AND ea.type = 'author_of'
JOIN nodes o ON o.id = ea.dst AND o.label = 'Output'
JOIN edges eb ON eb.dst = o.id AND eb.type = 'author_of'
JOIN nodes b ON b.id = eb.src AND b.label = 'Author'
WHERE a.label = 'Author' AND a.uid = $uuid AND b.uid <> $uuid AND ` + resultTypeSQL + `
GROUP BY b.id
ORDER BY collaborations DESC, b.uid
LIMIT $limit`,
		JSONFields: []string{"author"},
	}

	stmtAuthorOutputCounts = graphstore.Statement{
		Name: "author.output_counts",
		Cypher: `MATCH (a:Author {uuid: $uuid})-[:author_of]->(o:Output)
RETURN o.result_type AS result_type, count(DISTINCT o) AS count`,
		SQL: `SELECT json_extract(o.props, '$.result_type') AS result_type, count(DISTINCT o.id) AS count
FROM nodes a
JOIN edges e ON e.src = a.id AND e.type = 'author_of'
JOIN nodes o ON o.id = e.dst AND o.label = 'Output'
WHERE a.label = 'Author' AND a.uid = $uuid
GROUP BY 1`,
	}

	stmtAuthorPublications = graphstore.Statement{
		Name: "author.publications",
		Cypher: `MATCH (a:Author {uuid: $uuid})-[:author_of]->(o:Output)
WHERE $result_type IS NULL OR o.result_type = $result_type
WITH DISTINCT o
ORDER BY coalesce(o.publication_year, -1) DESC, o.uuid
SKIP $skip LIMIT $limit` + outputTailCypher,
		SQL: `SELECT ` + outputColumnsSQL + `
FROM nodes o
WHERE o.label = 'Output'
  AND o.id IN (SELECT e.dst FROM edges e JOIN nodes a ON a.id = e.src AND a.label = 'Author'
               WHERE e.type = 'author_of' AND a.uid = $uuid)
  AND ` + resultTypeSQL + `
` + outputOrderSQL + `
LIMIT $limit OFFSET $skip`,
		JSONFields: outputFields,
	}

	stmtAuthorAll = graphstore.Statement{
		Name: "author.all",
		Cypher: `MATCH (a:Author)
OPTIONAL MATCH (a)-[:member_of]->(u:Workstream)
WITH a, collect(DISTINCT u) AS workstreams
WHERE size($workstream_ids) = 0 OR any(w IN workstreams WHERE w.id IN $workstream_ids)
WITH a, workstreams
ORDER BY a.last_name, a.uuid
SKIP $skip LIMIT $limit
OPTIONAL MATCH (a)-[:member_of]->(p:Partner)
RETURN a AS author, collect(DISTINCT p) AS affiliations, workstreams
ORDER BY author.last_name, author.uuid`,
		SQL: `SELECT ` + authorColumnsSQL + `
FROM nodes a
WHERE a.label = 'Author'
  AND (json_array_length($workstream_ids) = 0 OR EXISTS (
    SELECT 1 FROM edges m JOIN nodes u ON u.id = m.dst AND u.label = 'Workstream'
     WHERE m.src = a.id AND m.type = 'member_of'
       AND u.uid IN (SELECT value FROM json_each($workstream_ids))))
ORDER BY json_extract(a.props, '$.last_name'), a.uid
LIMIT $limit OFFSET $skip`,
		JSONFields: authorFields,
	}

	stmtAuthorCountAll = graphstore.Statement{
		Name:   "author.count_all",
		Cypher: `MATCH (a:Author) RETURN count(a) AS total`,
		SQL:    `SELECT count(*) AS total FROM nodes WHERE label = 'Author'`,
	}
)

// Output traversals.
var (
	stmtOutputNode = graphstore.Statement{
		Name: "output.node",
		Cypher: `MATCH (o:Output {uuid: $uuid})
OPTIONAL MATCH (o)-[:REFERS_TO]->(c:Country)
RETURN o AS output, collect(DISTINCT c) AS countries`,
		SQL: `SELECT json(o.props) AS output,
	(SELECT json_group_array(json(c.props))
	   FROM edges r JOIN nodes c ON c.id = r.dst AND c.label = 'Country'
	  WHERE r.src = o.id AND r.type = 'REFERS_TO') AS countries
FROM nodes o
WHERE o.label = 'Output' AND o.uid = $uuid`,
		JSONFields: []string{"output", "countries"},
	}

	stmtOutputAuthors = graphstore.Statement{
		Name: "output.authors",
		Cypher: `MATCH (b:Author)-[r:author_of]->(o:Output {uuid: $uuid})
RETURN b AS node, r.rank AS rank
ORDER BY rank, node.uuid`,
		SQL: `SELECT json(b.props) AS node, e.rank AS rank
FROM nodes o
JOIN edges e ON e.dst = o.id AND e.type = 'author_of'
JOIN nodes b ON b.id = e.src AND b.label = 'Author'
WHERE o.label = 'Output' AND o.uid = $uuid
ORDER BY e.rank IS NULL, e.rank, b.uid`,
		JSONFields: []string{"node"},
	}

	stmtOutputCount = graphstore.Statement{
		Name:   "output.count",
		Cypher: `MATCH (o:Output) RETURN o.result_type AS result_type, count(o) AS count`,
		SQL: `SELECT json_extract(props, '$.result_type') AS result_type, count(*) AS count
FROM nodes
WHERE label = 'Output'
GROUP BY 1`,
	}

	stmtOutputByType = graphstore.Statement{
		Name: "output.by_type",
		Cypher: `MATCH (o:Output)
WHERE $result_type IS NULL OR o.result_type = $result_type
WITH o
ORDER BY coalesce(o.publication_year, -1) DESC, o.uuid
SKIP $skip LIMIT $limit` + outputTailCypher,
		SQL: `SELECT ` + outputColumnsSQL + `
FROM nodes o
WHERE o.label = 'Output' AND ` + resultTypeSQL + `
` + outputOrderSQL + `
LIMIT $limit OFFSET $skip`,
		JSONFields: outputFields,
	}

	stmtOutputByCountry = graphstore.Statement{
		Name: "output.by_country",
		Cypher: `MATCH (o:Output)-[:REFERS_TO]->(:Country {id: $country})
WHERE $result_type IS NULL OR o.result_type = $result_type
WITH DISTINCT o
ORDER BY coalesce(o.publication_year, -1) DESC, o.uuid
SKIP $skip LIMIT $limit` + outputTailCypher,
		SQL: `SELECT ` + outputColumnsSQL + `
FROM nodes o
WHERE o.label = 'Output' AND ` + resultTypeSQL + `
  AND EXISTS (SELECT 1 FROM edges r JOIN nodes k ON k.id = r.dst AND k.label = 'Country'
               WHERE r.src = o.id AND r.type = 'REFERS_TO' AND k.uid = $country)
` + outputOrderSQL + `
LIMIT $limit OFFSET $skip`,
		JSONFields: outputFields,
	}
)

// Country traversals.
var (
	stmtCountryNode = graphstore.Statement{
		Name:       "country.node",
		Cypher:     `MATCH (c:Country {id: $id}) RETURN c AS country`,
		SQL:        `SELECT json(props) AS country FROM nodes WHERE label = 'Country' AND uid = $id`,
		JSONFields: []string{"country"},
	}

	stmtCountryCountOutputs = graphstore.Statement{
		Name: "country.count_outputs",
		Cypher: `MATCH (o:Output)-[:REFERS_TO]->(:Country {id: $id})
RETURN o.result_type AS result_type, count(DISTINCT o) AS count`,
		SQL: `SELECT json_extract(o.props, '$.result_type') AS result_type, count(DISTINCT o.id) AS count
FROM nodes c
JOIN edges r ON r.dst = c.id AND r.type = 'REFERS_TO'
JOIN nodes o ON o.id = r.src AND o.label = 'Output'
WHERE c.label = 'Country' AND c.uid = $id
GROUP BY 1`,
	}

	stmtCountryCountAll = graphstore.Statement{
		Name:   "country.count_all",
		Cypher: `MATCH (:Output)-[:REFERS_TO]->(c:Country) RETURN count(DISTINCT c) AS total`,
		SQL: `SELECT count(DISTINCT c.id) AS total
FROM edges r
JOIN nodes c ON c.id = r.dst AND c.label = 'Country'
JOIN nodes o ON o.id = r.src AND o.label = 'Output'
WHERE r.type = 'REFERS_TO'`,
	}

	stmtCountryList = graphstore.Statement{
		Name: "country.list",
		Cypher: `MATCH (:Output)-[:REFERS_TO]->(c:Country)
WITH DISTINCT c
RETURN c AS country
ORDER BY country.name, country.id
SKIP $skip LIMIT $limit`,
		SQL: `SELECT json(c.props) AS country
FROM nodes c
WHERE c.label = 'Country'
  AND EXISTS (SELECT 1 FROM edges r JOIN nodes o ON o.id = r.src AND o.label = 'Output'
               WHERE r.dst = c.id AND r.type = 'REFERS_TO')
ORDER BY json_extract(c.props, '$.name'), c.uid
LIMIT $limit OFFSET $skip`,
		JSONFields: []string{"country"},
	}
)

// Workstream traversals.
var (
	stmtWorkstreamDetail = graphstore.Statement{
		Name: "workstream.detail",
		Cypher: `MATCH (w:Workstream {id: $id})
OPTIONAL MATCH (c:Workstream)-[:unit_of]->(w)
RETURN w AS workstream, collect(DISTINCT c.id) AS children`,
		SQL: `SELECT json(w.props) AS workstream,
	(SELECT json_group_array(c.uid)
	   FROM edges e JOIN nodes c ON c.id = e.src AND c.label = 'Workstream'
	  WHERE e.dst = w.id AND e.type = 'unit_of') AS children
FROM nodes w
WHERE w.label = 'Workstream' AND w.uid = $id`,
		JSONFields: []string{"workstream", "children"},
	}

	stmtWorkstreamList = graphstore.Statement{
		Name: "workstream.list",
		Cypher: `MATCH (:Author)-[:member_of]->(w:Workstream)
WITH DISTINCT w
OPTIONAL MATCH (w)-[:unit_of]->(p:Workstream)
WITH w, head(collect(p.name)) AS parent_name
RETURN w AS workstream, parent_name
ORDER BY coalesce(parent_name, ''), workstream.name, workstream.id
SKIP $skip LIMIT $limit`,
		SQL: `SELECT json(w.props) AS workstream,
	(SELECT json_extract(p.props, '$.name')
	   FROM edges e JOIN nodes p ON p.id = e.dst AND p.label = 'Workstream'
	  WHERE e.src = w.id AND e.type = 'unit_of'
	  ORDER BY p.uid LIMIT 1) AS parent_name
FROM nodes w
WHERE w.label = 'Workstream'
  AND EXISTS (SELECT 1 FROM edges m JOIN nodes a ON a.id = m.src AND a.label = 'Author'
               WHERE m.dst = w.id AND m.type = 'member_of')
ORDER BY coalesce(parent_name, ''), json_extract(w.props, '$.name'), w.uid
LIMIT $limit OFFSET $skip`,
		JSONFields: []string{"workstream"},
	}

	stmtWorkstreamCountMembers = graphstore.Statement{
		Name:   "workstream.count_members",
		Cypher: `MATCH (:Author)-[:member_of]->(w:Workstream) RETURN count(DISTINCT w) AS total`,
		SQL: `SELECT count(DISTINCT w.id) AS total
FROM edges m
JOIN nodes a ON a.id = m.src AND a.label = 'Author'
JOIN nodes w ON w.id = m.dst AND w.label = 'Workstream'
WHERE m.type = 'member_of'`,
	}
)
