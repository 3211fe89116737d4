package reference

// Status classifies a document against the user's remote library.
//
// A record whose DOI is unknown can never leave StatusUnknown: without an
// identifier there is nothing to look up, so absence of evidence is not
// evidence of absence. Transitions happen only through engine
// classification paths, never from display code.
type Status int

const (
	// StatusUnknown means no conclusive lookup has happened (no DOI, or
	// the last lookup failed in transit).
	StatusUnknown Status = iota

	// StatusNotInLibrary means a lookup ran and the library reported the
	// document absent.
	StatusNotInLibrary

	// StatusInLibraryNoFile means the document is in the library but has
	// no file attached.
	StatusInLibraryNoFile

	// StatusInLibraryWithFile means the document is in the library with a
	// file attached.
	StatusInLibraryWithFile
)

var statusNames = map[Status]string{
	StatusUnknown:           "unknown",
	StatusNotInLibrary:      "not_in_library",
	StatusInLibraryNoFile:   "in_library_no_file",
	StatusInLibraryWithFile: "in_library_with_file",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStatus maps a persisted status string back to a Status. Unrecognized
// values map to StatusUnknown so stale rows degrade instead of failing.
func ParseStatus(s string) Status {
	for k, v := range statusNames {
		if v == s {
			return k
		}
	}
	return StatusUnknown
}

// InLibrary reports whether the status indicates the document is present,
// with or without a file.
func (s Status) InLibrary() bool {
	return s == StatusInLibraryNoFile || s == StatusInLibraryWithFile
}
