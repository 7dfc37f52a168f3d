package search

import (
	"strconv"
	"strings"
)

// Filter is a structured predicate extracted from a key:value query token.
type Filter struct {
	Key      string `json:"key"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

const (
	FilterKeyAuthor   = "author"
	FilterKeyKeyword  = "keyword"
	FilterKeyLicense  = "license"
	FilterKeyPlatform = "platform"
	FilterKeyType     = "type"
	FilterKeyStars    = "stars"
)

const (
	operatorEquals       = "="
	operatorGreater      = ">"
	operatorGreaterEqual = ">="
	operatorLess         = "<"
	operatorLessEqual    = "<="
)

var validPlatforms = map[string]bool{
	"ios": true, "macos": true, "linux": true, "tvos": true, "watchos": true,
}

var validProductTypes = map[string]bool{
	"library": true, "executable": true, "plugin": true, "macro": true,
}

type filterParser func(value string) (Filter, bool)

var filterParsers = map[string]filterParser{
	FilterKeyAuthor:   parseTextFilter(FilterKeyAuthor),
	FilterKeyKeyword:  parseTextFilter(FilterKeyKeyword),
	FilterKeyLicense:  parseTextFilter(FilterKeyLicense),
	FilterKeyPlatform: parseEnumFilter(FilterKeyPlatform, validPlatforms),
	FilterKeyType:     parseEnumFilter(FilterKeyType, validProductTypes),
	FilterKeyStars:    parseStarsFilter,
}

// splitFilters partitions sanitized tokens into structured filters and
// remaining free-text terms. A token that does not parse as a recognized
// filter stays a plain term; malformed filter values never surface an error.
func splitFilters(tokens []string) ([]string, []Filter) {
	terms := make([]string, 0, len(tokens))
	filters := []Filter{}

	for _, token := range tokens {
		key, value, found := strings.Cut(token, ":")
		if found && value != "" {
			if parse, recognized := filterParsers[strings.ToLower(key)]; recognized {
				if filter, valid := parse(value); valid {
					filters = append(filters, filter)
					continue
				}
			}
		}
		terms = append(terms, token)
	}

	return terms, filters
}

func parseTextFilter(key string) filterParser {
	return func(value string) (Filter, bool) {
		return Filter{Key: key, Operator: operatorEquals, Value: value}, true
	}
}

func parseEnumFilter(key string, valid map[string]bool) filterParser {
	return func(value string) (Filter, bool) {
		value = strings.ToLower(value)
		if !valid[value] {
			return Filter{}, false
		}
		return Filter{Key: key, Operator: operatorEquals, Value: value}, true
	}
}

func parseStarsFilter(value string) (Filter, bool) {
	operator := operatorEquals
	switch {
	case strings.HasPrefix(value, operatorGreaterEqual):
		operator, value = operatorGreaterEqual, value[2:]
	case strings.HasPrefix(value, operatorLessEqual):
		operator, value = operatorLessEqual, value[2:]
	case strings.HasPrefix(value, operatorGreater):
		operator, value = operatorGreater, value[1:]
	case strings.HasPrefix(value, operatorLess):
		operator, value = operatorLess, value[1:]
	}

	if _, err := strconv.Atoi(value); err != nil {
		return Filter{}, false
	}

	return Filter{Key: FilterKeyStars, Operator: operator, Value: value}, true
}
