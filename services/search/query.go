package search

import (
	"strconv"
	"strings"
)

const searchView = "search"

// fuzzyMatchLimit caps the author and keyword fragments; they are not
// paginated.
const fuzzyMatchLimit = 50

// unifiedColumns is the fixed projection every match fragment must emit, in
// order. The three builders and the row decoder stay in lockstep with this
// list; results are combined by positional union.
var unifiedColumns = []string{
	"match_type",
	"keyword",
	"package_id",
	"package_name",
	"repo_name",
	"repo_owner",
	"score",
	"summary",
	"stars",
	"license",
	"last_commit_date",
	"last_activity_at",
	"keywords",
	"levenshtein_dist",
}

// predicate is one SQL expression with its bound arguments. It doubles as a
// projected column and as an ordering term, so every fragment part carries
// its arguments in serialization order.
type predicate struct {
	expr string
	args []any
}

// fragment is the intermediate representation one match strategy produces:
// a projection over the search view with predicates, grouping, ordering and
// slicing. A single serializer turns it into SQL.
type fragment struct {
	columns []predicate
	where   []predicate
	groupBy string
	orderBy []predicate
	limit   int
	offset  int
}

func (f fragment) sql() (string, []any) {
	var builder strings.Builder
	args := []any{}

	builder.WriteString("SELECT ")
	for i, column := range f.columns {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(column.expr)
		args = append(args, column.args...)
	}
	builder.WriteString(" FROM " + searchView)

	if len(f.where) > 0 {
		builder.WriteString(" WHERE ")
		for i, condition := range f.where {
			if i > 0 {
				builder.WriteString(" AND ")
			}
			builder.WriteString(condition.expr)
			args = append(args, condition.args...)
		}
	}

	if f.groupBy != "" {
		builder.WriteString(" GROUP BY " + f.groupBy)
	}

	if len(f.orderBy) > 0 {
		builder.WriteString(" ORDER BY ")
		for i, ordering := range f.orderBy {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(ordering.expr)
			args = append(args, ordering.args...)
		}
	}

	if f.limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, f.limit)
	}
	if f.offset > 0 {
		builder.WriteString(" OFFSET ?")
		args = append(args, f.offset)
	}

	return builder.String(), args
}

// packageFragment matches packages whose haystack matches every term.
// Ranking: exact name match on the merged query first, then popularity
// score, then name as a stable tie-break.
func packageFragment(terms []string, merged string, filters []Filter, limit, offset int) fragment {
	columns := []predicate{
		{expr: "'package' AS match_type"},
		{expr: "NULL AS keyword"},
		{expr: "package_id"},
		{expr: "package_name"},
		{expr: "repo_name"},
		{expr: "repo_owner"},
		{expr: "score"},
		{expr: "summary"},
		{expr: "stars"},
		{expr: "license"},
		{expr: "last_commit_date"},
		{expr: "last_activity_at"},
		{expr: "keywords"},
		{expr: "NULL AS levenshtein_dist"},
	}

	where := []predicate{
		{expr: "repo_owner IS NOT NULL"},
		{expr: "repo_name IS NOT NULL"},
	}
	for _, term := range terms {
		where = append(where, predicate{expr: "haystack REGEXP ?", args: []any{term}})
	}
	where = append(where, filterPredicates(filters)...)

	return fragment{
		columns: columns,
		where:   where,
		groupBy: "package_id",
		orderBy: []predicate{
			{expr: "(lower(package_name) = lower(?)) DESC", args: []any{merged}},
			{expr: "score DESC"},
			{expr: "package_name ASC"},
		},
		limit:  limit,
		offset: offset,
	}
}

// keywordFragment matches keywords containing the merged query string,
// closest spelling first. Structured filters do not apply.
func keywordFragment(merged string) fragment {
	columns := []predicate{
		{expr: "'keyword' AS match_type"},
		{expr: "keyword"},
		{expr: "NULL AS package_id"},
		{expr: "NULL AS package_name"},
		{expr: "NULL AS repo_name"},
		{expr: "NULL AS repo_owner"},
		{expr: "NULL AS score"},
		{expr: "NULL AS summary"},
		{expr: "NULL AS stars"},
		{expr: "NULL AS license"},
		{expr: "NULL AS last_commit_date"},
		{expr: "NULL AS last_activity_at"},
		{expr: "NULL AS keywords"},
		{expr: "levenshtein(keyword, ?) AS levenshtein_dist", args: []any{merged}},
	}

	return fragment{
		columns: columns,
		where: []predicate{
			{expr: "keyword <> ''"},
			{expr: "keyword LIKE ?", args: []any{"%" + merged + "%"}},
		},
		groupBy: "keyword",
		orderBy: []predicate{{expr: "levenshtein_dist ASC"}},
		limit:   fuzzyMatchLimit,
	}
}

// authorFragment matches repository owners containing the merged query
// string, one row per distinct owner. Structured filters do not apply.
func authorFragment(merged string) fragment {
	columns := []predicate{
		{expr: "'author' AS match_type"},
		{expr: "NULL AS keyword"},
		{expr: "NULL AS package_id"},
		{expr: "NULL AS package_name"},
		{expr: "NULL AS repo_name"},
		{expr: "repo_owner"},
		{expr: "NULL AS score"},
		{expr: "NULL AS summary"},
		{expr: "NULL AS stars"},
		{expr: "NULL AS license"},
		{expr: "NULL AS last_commit_date"},
		{expr: "NULL AS last_activity_at"},
		{expr: "NULL AS keywords"},
		{expr: "levenshtein(repo_owner, ?) AS levenshtein_dist", args: []any{merged}},
	}

	return fragment{
		columns: columns,
		where: []predicate{
			{expr: "repo_owner IS NOT NULL"},
			{expr: "repo_owner <> ''"},
			{expr: "repo_owner LIKE ?", args: []any{"%" + merged + "%"}},
		},
		groupBy: "repo_owner",
		orderBy: []predicate{{expr: "levenshtein_dist ASC"}},
		limit:   fuzzyMatchLimit,
	}
}

// filterPredicates turns structured filters into package-fragment
// predicates. Filters of the same key compose with AND, except platform
// which is OR-within-key.
func filterPredicates(filters []Filter) []predicate {
	predicates := []predicate{}
	platforms := []Filter{}

	for _, filter := range filters {
		switch filter.Key {
		case FilterKeyAuthor:
			predicates = append(predicates, predicate{expr: "repo_owner = ? COLLATE NOCASE", args: []any{filter.Value}})
		case FilterKeyKeyword:
			predicates = append(predicates, predicate{expr: "json_array_contains(keywords, ?)", args: []any{filter.Value}})
		case FilterKeyLicense:
			predicates = append(predicates, predicate{expr: "license = ? COLLATE NOCASE", args: []any{filter.Value}})
		case FilterKeyType:
			predicates = append(predicates, predicate{expr: "json_array_contains(product_types, ?)", args: []any{filter.Value}})
		case FilterKeyStars:
			stars, err := strconv.Atoi(filter.Value)
			if err != nil {
				continue
			}
			predicates = append(predicates, predicate{expr: "stars " + filter.Operator + " ?", args: []any{stars}})
		case FilterKeyPlatform:
			platforms = append(platforms, filter)
		}
	}

	if len(platforms) > 0 {
		parts := make([]string, len(platforms))
		args := make([]any, len(platforms))
		for i, filter := range platforms {
			parts[i] = "json_array_contains(platforms, ?)"
			args[i] = filter.Value
		}
		predicates = append(predicates, predicate{expr: "(" + strings.Join(parts, " OR ") + ")", args: args})
	}

	return predicates
}

// composeQuery builds the single statement answering one search request.
// Page 1 unions author and keyword matches ahead of the package matches;
// later pages (and filter-only searches) query the package fragment alone.
// The package fragment over-fetches one row so the caller can detect more
// results without a count query.
func composeQuery(terms []string, filters []Filter, page, pageSize int) (string, []any) {
	merged := mergeTerms(terms)
	pkg := packageFragment(terms, merged, filters, pageSize+1, (page-1)*pageSize)

	if page > 1 || merged == "" {
		return pkg.sql()
	}

	var builder strings.Builder
	args := []any{}
	for i, f := range []fragment{authorFragment(merged), keywordFragment(merged), pkg} {
		if i > 0 {
			builder.WriteString(" UNION ALL ")
		}
		fragmentSQL, fragmentArgs := f.sql()
		builder.WriteString("SELECT * FROM (" + fragmentSQL + ")")
		args = append(args, fragmentArgs...)
	}

	builder.WriteString(" ORDER BY CASE match_type WHEN 'author' THEN 0 WHEN 'keyword' THEN 1 ELSE 2 END")
	builder.WriteString(", levenshtein_dist ASC")
	builder.WriteString(", (lower(package_name) = lower(?)) DESC")
	builder.WriteString(", score DESC, package_name ASC")
	args = append(args, merged)

	return builder.String(), args
}
