package search

import (
	"database/sql"
	"testing"

	"github.com/meghashyamc/whichpackage/db/searchdb"
	"github.com/stretchr/testify/require"
)

func validString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestNewResultAuthor(t *testing.T) {
	assert := require.New(t)

	result, err := newResult(searchdb.Row{
		MatchType: searchdb.MatchTypeAuthor,
		RepoOwner: validString("vapor"),
	})
	assert.NoError(err)
	assert.Equal(searchdb.MatchTypeAuthor, result.MatchType)
	assert.NotNil(result.Author)
	assert.Equal("vapor", result.Author.Name)
	assert.Nil(result.Keyword)
	assert.Nil(result.Package)
}

func TestNewResultKeyword(t *testing.T) {
	assert := require.New(t)

	result, err := newResult(searchdb.Row{
		MatchType: searchdb.MatchTypeKeyword,
		Keyword:   validString("networking"),
	})
	assert.NoError(err)
	assert.Equal(searchdb.MatchTypeKeyword, result.MatchType)
	assert.NotNil(result.Keyword)
	assert.Equal("networking", result.Keyword.Keyword)
}

func TestNewResultPackage(t *testing.T) {
	assert := require.New(t)

	result, err := newResult(searchdb.Row{
		MatchType:   searchdb.MatchTypePackage,
		PackageID:   validString("id-1"),
		PackageName: validString("Alamofire"),
		RepoName:    validString("Alamofire"),
		RepoOwner:   validString("Alamofire"),
		Summary:     validString("HTTP networking"),
		Stars:       sql.NullInt64{Int64: 40000, Valid: true},
		License:     validString("MIT"),
		Keywords:    validString(`["networking","http"]`),
	})
	assert.NoError(err)
	assert.Equal(searchdb.MatchTypePackage, result.MatchType)
	assert.NotNil(result.Package)
	assert.Equal("id-1", result.Package.ID)
	assert.Equal("/Alamofire/Alamofire", result.Package.URL)
	assert.Equal([]string{"networking", "http"}, result.Package.Keywords)
	assert.Equal(40000, result.Package.Stars)
}

// Rows missing a field their match type owns are rejected, never decoded
// into a partially-filled variant.
var incompleteRowTestCases = []struct {
	name string
	row  searchdb.Row
}{
	{
		name: "Author with null owner",
		row:  searchdb.Row{MatchType: searchdb.MatchTypeAuthor},
	},
	{
		name: "Author with empty owner",
		row:  searchdb.Row{MatchType: searchdb.MatchTypeAuthor, RepoOwner: validString("")},
	},
	{
		name: "Keyword with null keyword",
		row:  searchdb.Row{MatchType: searchdb.MatchTypeKeyword},
	},
	{
		name: "Package with no ID",
		row: searchdb.Row{
			MatchType: searchdb.MatchTypePackage,
			RepoName:  validString("repo"),
			RepoOwner: validString("owner"),
		},
	},
	{
		name: "Package with no repository owner",
		row: searchdb.Row{
			MatchType: searchdb.MatchTypePackage,
			PackageID: validString("id-1"),
			RepoName:  validString("repo"),
		},
	},
	{
		name: "Unknown match type",
		row:  searchdb.Row{MatchType: "sponsor"},
	},
}

func TestNewResultRejectsIncompleteRows(t *testing.T) {
	for _, testCase := range incompleteRowTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)

			_, err := newResult(testCase.row)
			assert.Error(err)
		})
	}
}
