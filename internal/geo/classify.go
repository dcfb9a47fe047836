package geo

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ClassifyArea determines the named area for a coordinate.
//
// Every box is checked in order and the last match wins. A box match sets
// found. Only when no box matches is the free-text location consulted: it is
// lower-cased and the first keyword contained in it becomes the area, with
// found left false. No match returns ("", false).
func ClassifyArea(c Coordinate, location string, boxes []NamedBox, keywords []string) (found bool, area string) {
	for _, nb := range boxes {
		if InBox(c, nb.Box) {
			area = nb.Name
			found = true
		}
	}
	if found || location == "" {
		return found, area
	}

	return false, MatchKeyword(location, keywords)
}

// MatchKeyword returns the first keyword that appears in the text, comparing
// both lower-cased, or "" when none does. The match is returned lower-cased.
func MatchKeyword(text string, keywords []string) string {
	lower := cases.Lower(language.Und)
	lowered := lower.String(text)
	for _, kw := range keywords {
		kw = lower.String(kw)
		if kw != "" && strings.Contains(lowered, kw) {
			return kw
		}
	}
	return ""
}
