package search

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meghashyamc/whichpackage/db/searchdb"
)

var errIncompleteRow = errors.New("row is missing a field required by its match type")

// Result is the tagged union over the three match variants. Exactly one of
// Author, Keyword and Package is set, per MatchType.
type Result struct {
	MatchType string         `json:"match_type"`
	Author    *AuthorResult  `json:"author,omitempty"`
	Keyword   *KeywordResult `json:"keyword,omitempty"`
	Package   *PackageResult `json:"package,omitempty"`
}

type AuthorResult struct {
	Name string `json:"name"`
}

type KeywordResult struct {
	Keyword string `json:"keyword"`
}

type PackageResult struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	URL       string   `json:"url"`
	RepoName  string   `json:"repository_name"`
	RepoOwner string   `json:"repository_owner"`
	Summary   string   `json:"summary"`
	Stars     int      `json:"stars"`
	License   string   `json:"license"`
	Keywords  []string `json:"keywords"`
}

// newResult constructs the variant a row's match type implies. Construction
// fails when a type-owned field is absent; callers drop such rows.
func newResult(row searchdb.Row) (Result, error) {
	switch row.MatchType {
	case searchdb.MatchTypeAuthor:
		if !row.RepoOwner.Valid || row.RepoOwner.String == "" {
			return Result{}, errIncompleteRow
		}
		return Result{
			MatchType: searchdb.MatchTypeAuthor,
			Author:    &AuthorResult{Name: row.RepoOwner.String},
		}, nil

	case searchdb.MatchTypeKeyword:
		if !row.Keyword.Valid || row.Keyword.String == "" {
			return Result{}, errIncompleteRow
		}
		return Result{
			MatchType: searchdb.MatchTypeKeyword,
			Keyword:   &KeywordResult{Keyword: row.Keyword.String},
		}, nil

	case searchdb.MatchTypePackage:
		if !row.PackageID.Valid || !row.RepoOwner.Valid || row.RepoOwner.String == "" ||
			!row.RepoName.Valid || row.RepoName.String == "" {
			return Result{}, errIncompleteRow
		}
		return Result{
			MatchType: searchdb.MatchTypePackage,
			Package: &PackageResult{
				ID:        row.PackageID.String,
				Name:      row.PackageName.String,
				URL:       packageURL(row.RepoOwner.String, row.RepoName.String),
				RepoName:  row.RepoName.String,
				RepoOwner: row.RepoOwner.String,
				Summary:   row.Summary.String,
				Stars:     int(row.Stars.Int64),
				License:   row.License.String,
				Keywords:  decodeKeywords(row.Keywords.String),
			},
		}, nil

	default:
		return Result{}, fmt.Errorf("unknown match type: %q", row.MatchType)
	}
}

func packageURL(owner, repoName string) string {
	return fmt.Sprintf("/%s/%s", owner, repoName)
}

func decodeKeywords(encoded string) []string {
	keywords := []string{}
	if encoded == "" {
		return keywords
	}
	if err := json.Unmarshal([]byte(encoded), &keywords); err != nil {
		return []string{}
	}
	return keywords
}
