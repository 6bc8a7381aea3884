// Package dates pulls date-like substrings out of recognized text.
//
// The pattern is two digits, a slash or hyphen, two digits, a slash or
// hyphen, four digits. Day/month order is not interpreted and calendar
// validity is not checked: "99/99/9999" matches.
package dates

import (
	"regexp"
	"strings"
)

const NoneFound = "No dates found."

const foundHeader = "Found dates:"

var Pattern = regexp.MustCompile(`\d{2}[/-]\d{2}[/-]\d{4}`)

// Find returns every non-overlapping match in text, left to right.
func Find(text string) []string {
	matches := Pattern.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}

// FromFragments matches each fragment on its own and concatenates the
// results in encounter order. Duplicates are kept.
func FromFragments(fragments []string) []string {
	found := []string{}
	for _, text := range fragments {
		found = append(found, Find(text)...)
	}
	return found
}

// Format renders the result the way the display screen shows it.
func Format(found []string) string {
	if len(found) == 0 {
		return NoneFound
	}
	return foundHeader + "\n" + strings.Join(found, "\n")
}
