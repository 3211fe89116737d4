package reference

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Raw is one reference entry as returned by the citation resolver or read
// back from the local store. Field shapes are loose on purpose: upstream
// payloads disagree about types, so decoding absorbs the variation here
// and everything downstream works with normalized values.
type Raw struct {
	RefID       Label      `json:"ref_id,omitempty"`
	Title       string     `json:"title,omitempty"`
	Authors     AuthorList `json:"authors,omitempty"`
	Year        string     `json:"year,omitempty"`
	Date        string     `json:"date,omitempty"`
	Publication string     `json:"publication,omitempty"`
	DOI         string     `json:"doi,omitempty"`
	Volume      string     `json:"volume,omitempty"`
	Issue       string     `json:"issue,omitempty"`
	Pages       string     `json:"pages,omitempty"`
	Series      string     `json:"series,omitempty"`

	// Status is only populated on rows read back from the local store.
	// Resolver payloads never carry it.
	Status string `json:"status,omitempty"`
}

// Label is an ordinal bibliography position that upstream payloads encode
// as either a JSON string or a number. The verbatim text is preserved.
type Label string

// UnmarshalJSON accepts a string, a number, or null.
func (l *Label) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*l = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*l = Label(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("ref_id must be a string or number: %w", err)
	}
	*l = Label(n.String())
	return nil
}

// AuthorList is an ordered list of author display names. Upstream payloads
// send either a JSON array or one "; "-delimited string; both decode to
// the same normalized list. Order is citation order.
type AuthorList []string

// UnmarshalJSON accepts an array of strings, a delimited string, or null.
func (a *AuthorList) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = nil
		return nil
	}
	if len(s) > 0 && s[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*a = normalizeAuthors(list)
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("authors must be a string or array: %w", err)
	}
	*a = SplitAuthors(joined)
	return nil
}

func normalizeAuthors(list []string) AuthorList {
	var out AuthorList
	for _, name := range list {
		out = append(out, SplitAuthors(name)...)
	}
	return out
}

// DisplayYear returns the year field when present, else the date field.
// The two are never consulted together: year wins outright.
func (r Raw) DisplayYear() string {
	if r.Year != "" {
		return r.Year
	}
	return r.Date
}
