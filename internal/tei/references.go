package tei

import "strings"

// bibliographyPath leads from the TEI root to the reference list GROBID
// emits for /api/processReferences.
var bibliographyPath = []string{"text", "back", "div", "listBibl"}

// ParseReferences returns one flattened text record per biblStruct, in
// document order. A malformed document, or one without a bibliography,
// yields no records and no error.
func ParseReferences(teiXML string) []string {
	root, err := Parse(strings.NewReader(teiXML))
	if err != nil {
		return nil
	}

	list := root.Path(bibliographyPath...)
	if list == nil {
		return nil
	}

	var records []string
	for _, bibl := range list.Children("biblStruct") {
		if rec := flatten(bibl); rec != "" {
			records = append(records, rec)
		}
	}
	return records
}

// flatten joins the text of each immediate child element of an entry,
// skipping children without text.
func flatten(bibl *Node) string {
	var parts []string
	for _, el := range bibl.Elements() {
		if text := el.Text(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
