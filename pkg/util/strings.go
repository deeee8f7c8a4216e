package util

import (
	"regexp"
	"strings"
)

var (
	parentheticalRegex = regexp.MustCompile(`\([^)]*\)`)
	bracketedRegex     = regexp.MustCompile(`\[[^\]]*\]`)
)

// NormalizeStationName reduces a station name to its canonical form -
// parenthesised or bracketed qualifiers, a trailing "역" suffix and all
// whitespace are stripped so that the many public-data spellings of the
// same station collapse to one key.
func NormalizeStationName(name string) string {
	name = parentheticalRegex.ReplaceAllString(name, "")
	name = bracketedRegex.ReplaceAllString(name, "")
	name = strings.TrimSuffix(name, "역")
	name = strings.ReplaceAll(name, " ", "")

	return strings.TrimSpace(name)
}

func ContainsString(s []string, str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}

	return false
}
