package searchdb

import (
	"database/sql"
	"time"
)

// Match types discriminate which search strategy produced a row.
const (
	MatchTypeAuthor  = "author"
	MatchTypeKeyword = "keyword"
	MatchTypePackage = "package"
)

// Package is the write-side shape: what the ingestion pipeline hands over
// for one package and its repository.
type Package struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Summary        string    `json:"summary"`
	Score          int       `json:"score"`
	Platforms      []string  `json:"platforms"`
	ProductTypes   []string  `json:"product_types"`
	RepoName       string    `json:"repository_name"`
	RepoOwner      string    `json:"repository_owner"`
	Stars          int       `json:"stars"`
	License        string    `json:"license"`
	LastCommitDate time.Time `json:"last_commit_date"`
	LastActivityAt time.Time `json:"last_activity_at"`
	Keywords       []string  `json:"keywords"`
}

// Row is the unified projection every match fragment emits. Only the fields
// owned by a row's match type are non-null; the rest are null by
// construction.
type Row struct {
	MatchType       string         `db:"match_type"`
	Keyword         sql.NullString `db:"keyword"`
	PackageID       sql.NullString `db:"package_id"`
	PackageName     sql.NullString `db:"package_name"`
	RepoName        sql.NullString `db:"repo_name"`
	RepoOwner       sql.NullString `db:"repo_owner"`
	Score           sql.NullInt64  `db:"score"`
	Summary         sql.NullString `db:"summary"`
	Stars           sql.NullInt64  `db:"stars"`
	License         sql.NullString `db:"license"`
	LastCommitDate  sql.NullString `db:"last_commit_date"`
	LastActivityAt  sql.NullString `db:"last_activity_at"`
	Keywords        sql.NullString `db:"keywords"` // JSON array of strings
	LevenshteinDist sql.NullInt64  `db:"levenshtein_dist"`
}
