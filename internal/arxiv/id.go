// Package arxiv recognizes arXiv identifiers and searches the arXiv API.
package arxiv

import "regexp"

// DOIPrefix is the DataCite prefix arXiv registers every preprint under.
const DOIPrefix = "10.48550/arXiv."

var (
	// citedIDPattern matches an identifier cited inline, e.g. "arXiv:2301.01234".
	citedIDPattern = regexp.MustCompile(`arXiv:(\d{4}\.\d{4,5})`)

	// absIDPattern matches the abstract page URL used as an Atom entry id,
	// e.g. "http://arxiv.org/abs/2301.01234v2".
	absIDPattern = regexp.MustCompile(`/abs/(\d{4}\.\d{4,5})`)
)

// FindCitedID returns the first "arXiv:YYMM.NNNNN" identifier in text.
func FindCitedID(text string) (string, bool) {
	m := citedIDPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IDFromAbsURL extracts the identifier, without version suffix, from an
// abstract page URL.
func IDFromAbsURL(url string) (string, bool) {
	m := absIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// DOI returns the DOI arXiv assigns to the given identifier.
func DOI(id string) string {
	return DOIPrefix + id
}
