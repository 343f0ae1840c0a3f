package utils

import (
	"regexp"
	"strings"

	"cloudfacade/internal/models"
)

// IsWildcardPattern checks if a string contains wildcard characters (* or ?)
func IsWildcardPattern(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// MatchesWildcardPattern checks if a string matches a wildcard pattern
// The pattern can contain * (any number of characters) and ? (exactly one character)
func MatchesWildcardPattern(pattern, s string) bool {
	re, err := regexp.Compile(wildcardToRegex(pattern))
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// wildcardToRegex converts a wildcard pattern to an anchored regex
func wildcardToRegex(pattern string) string {
	result := regexp.QuoteMeta(pattern)
	result = strings.ReplaceAll(result, `\?`, ".")
	result = strings.ReplaceAll(result, `\*`, ".*")
	return "^" + result + "$"
}

// NameMatches checks a resource name against a --match value. Wildcard
// patterns must match the whole name; anything else is a prefix.
func NameMatches(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	if IsWildcardPattern(pattern) {
		return MatchesWildcardPattern(pattern, name)
	}
	return strings.HasPrefix(name, pattern)
}

// FilterByName keeps the records whose name matches pattern, in order
func FilterByName[T models.Descriptor](records []T, pattern string) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if NameMatches(r.GetName(), pattern) {
			out = append(out, r)
		}
	}
	return out
}
