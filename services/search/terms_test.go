package search

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var sanitizeTermsTestCases = []struct {
	name     string
	input    []string
	expected []string
}{
	{
		name:     "Plain terms unchanged",
		input:    []string{"alamofire", "networking"},
		expected: []string{"alamofire", "networking"},
	},
	{
		name:     "Asterisk escaped",
		input:    []string{"foo*bar"},
		expected: []string{`foo\*bar`},
	},
	{
		name:     "Backslash escaped before other characters",
		input:    []string{`foo\*`},
		expected: []string{`foo\\\*`},
	},
	{
		name:     "All metacharacters escaped",
		input:    []string{`(a)[b]?`},
		expected: []string{`\(a\)\[b\]\?`},
	},
	{
		name:     "Empty tokens dropped",
		input:    []string{"", "foo", ""},
		expected: []string{"foo"},
	},
	{
		name:     "Order preserved",
		input:    []string{"b", "a", "c"},
		expected: []string{"b", "a", "c"},
	},
	{
		name:     "No input",
		input:    []string{},
		expected: []string{},
	},
}

func TestSanitizeTerms(t *testing.T) {
	for _, testCase := range sanitizeTermsTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			assert.Equal(testCase.expected, sanitizeTerms(testCase.input))
		})
	}
}

// A sanitized token used as a regex pattern must match exactly the original
// literal token and nothing else.
func TestSanitizeTermsRoundTrip(t *testing.T) {
	assert := require.New(t)

	tokens := []string{`a*b`, `what?`, `(group)`, `[set]`, `back\slash`, `*?()[]\`}
	for _, token := range tokens {
		sanitized := sanitizeTerms([]string{token})
		assert.Len(sanitized, 1)

		re, err := regexp.Compile("^" + sanitized[0] + "$")
		assert.NoError(err, "sanitized token should be a valid regex literal")

		assert.True(re.MatchString(token), "pattern should match the original token %q", token)
		assert.False(re.MatchString(token+"x"), "pattern should not match a longer string")
	}

	// Without escaping, "a*b" as a regex would match "ab" and "aaab".
	sanitized := sanitizeTerms([]string{"a*b"})
	re := regexp.MustCompile("^" + sanitized[0] + "$")
	assert.False(re.MatchString("ab"))
	assert.False(re.MatchString("aaab"))
}

func TestMergeTerms(t *testing.T) {
	assert := require.New(t)

	assert.Equal("", mergeTerms(nil))
	assert.Equal("foo", mergeTerms([]string{"foo"}))
	assert.Equal("foo bar", mergeTerms([]string{"foo", "bar"}))
}
