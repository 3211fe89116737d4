// Package pdf recovers document identifiers from PDF files on disk, so a
// session can start from a downloaded paper instead of a typed DOI.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/scholartools/shrew/internal/reference"
)

// doiPattern matches DOIs embedded in page text: 10.<registrant>/<suffix>.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// maxSearchPages bounds the scan; the DOI is nearly always on page one.
const maxSearchPages = 3

// ExtractDOI scans the first pages of the PDF at path for a DOI and
// returns it normalized. An unreadable file is an error; a readable file
// without a DOI returns "" and no error.
func ExtractDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > maxSearchPages {
		pages = maxSearchPages
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := findDOI(text); doi != "" {
			return reference.NormalizeDOI(doi), nil
		}
	}
	return "", nil
}

// findDOI returns the first DOI-shaped token in text, with trailing
// punctuation that page extraction tends to glue on stripped off.
func findDOI(text string) string {
	match := doiPattern.FindString(text)
	if match == "" {
		return ""
	}
	return strings.TrimRight(match, ".,;)")
}
