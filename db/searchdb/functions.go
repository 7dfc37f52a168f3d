package searchdb

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"modernc.org/sqlite"
)

func init() {
	sqlite.MustRegisterDeterministicScalarFunction("levenshtein", 2, levenshteinDistance)
	sqlite.MustRegisterDeterministicScalarFunction("regexp", 2, regexpMatch)
	sqlite.MustRegisterDeterministicScalarFunction("json_array_contains", 2, jsonArrayContains)
}

// levenshteinDistance is an SQL function returning the case-insensitive edit
// distance between two strings.
func levenshteinDistance(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, ok := args[0].(string)
	if !ok {
		return nil, errors.New("both arguments to levenshtein must be strings")
	}
	b, ok := args[1].(string)
	if !ok {
		return nil, errors.New("both arguments to levenshtein must be strings")
	}

	return int64(levenshtein.ComputeDistance(strings.ToLower(a), strings.ToLower(b))), nil
}

var regexpCache sync.Map

// regexpMatch backs the REGEXP operator: sqlite rewrites `text REGEXP pattern`
// into regexp(pattern, text). Matching is case-insensitive and unanchored.
func regexpMatch(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	pattern, ok := args[0].(string)
	if !ok {
		return nil, errors.New("regexp pattern must be a string")
	}
	text, ok := args[1].(string)
	if !ok {
		return false, nil
	}

	re, err := compileCached(pattern)
	if err != nil {
		return nil, err
	}

	return re.MatchString(text), nil
}

func compileCached(pattern string) (*regexp.Regexp, error) {
	if cached, ok := regexpCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	regexpCache.Store(pattern, re)
	return re, nil
}

// jsonArrayContains is an SQL function that checks if a JSON array in the
// database contains a given value, ignoring case.
func jsonArrayContains(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	value, ok := args[0].(string)
	if !ok {
		return nil, errors.New("both arguments to json_array_contains must be strings")
	}

	item, ok := args[1].(string)
	if !ok {
		return nil, errors.New("both arguments to json_array_contains must be strings")
	}

	var array []string
	if err := json.Unmarshal([]byte(value), &array); err != nil {
		return nil, err
	}

	for _, element := range array {
		if strings.EqualFold(element, item) {
			return true, nil
		}
	}

	return false, nil
}
