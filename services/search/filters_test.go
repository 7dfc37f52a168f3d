package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var splitFiltersTestCases = []struct {
	name            string
	tokens          []string
	expectedTerms   []string
	expectedFilters []Filter
}{
	{
		name:            "No filters",
		tokens:          []string{"alamofire", "networking"},
		expectedTerms:   []string{"alamofire", "networking"},
		expectedFilters: []Filter{},
	},
	{
		name:            "License filter",
		tokens:          []string{"license:mit"},
		expectedTerms:   []string{},
		expectedFilters: []Filter{{Key: "license", Operator: "=", Value: "mit"}},
	},
	{
		name:            "Filter key is case-insensitive, platform value lowercased",
		tokens:          []string{"Platform:iOS"},
		expectedTerms:   []string{},
		expectedFilters: []Filter{{Key: "platform", Operator: "=", Value: "ios"}},
	},
	{
		name:            "Unknown platform falls back to free text",
		tokens:          []string{"platform:amiga"},
		expectedTerms:   []string{"platform:amiga"},
		expectedFilters: []Filter{},
	},
	{
		name:            "Stars threshold",
		tokens:          []string{"stars:>100"},
		expectedTerms:   []string{},
		expectedFilters: []Filter{{Key: "stars", Operator: ">", Value: "100"}},
	},
	{
		name:            "Stars with greater-or-equal",
		tokens:          []string{"stars:>=500"},
		expectedTerms:   []string{},
		expectedFilters: []Filter{{Key: "stars", Operator: ">=", Value: "500"}},
	},
	{
		name:            "Malformed stars value falls back to free text",
		tokens:          []string{"stars:lots"},
		expectedTerms:   []string{"stars:lots"},
		expectedFilters: []Filter{},
	},
	{
		name:            "Unrecognized key stays free text",
		tokens:          []string{"color:blue"},
		expectedTerms:   []string{"color:blue"},
		expectedFilters: []Filter{},
	},
	{
		name:            "Empty filter value stays free text",
		tokens:          []string{"author:"},
		expectedTerms:   []string{"author:"},
		expectedFilters: []Filter{},
	},
	{
		name:          "Mixed terms and filters keep term order",
		tokens:        []string{"http", "license:apache-2.0", "client", "author:vapor"},
		expectedTerms: []string{"http", "client"},
		expectedFilters: []Filter{
			{Key: "license", Operator: "=", Value: "apache-2.0"},
			{Key: "author", Operator: "=", Value: "vapor"},
		},
	},
	{
		name:            "Product type filter",
		tokens:          []string{"type:library"},
		expectedTerms:   []string{},
		expectedFilters: []Filter{{Key: "type", Operator: "=", Value: "library"}},
	},
}

func TestSplitFilters(t *testing.T) {
	for _, testCase := range splitFiltersTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)

			terms, filters := splitFilters(testCase.tokens)
			assert.Equal(testCase.expectedTerms, terms)
			assert.Equal(testCase.expectedFilters, filters)
		})
	}
}
