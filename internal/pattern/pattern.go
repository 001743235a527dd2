// Package pattern parses route directory names of the form "<base>.<type>"
// or "<base>:<type>" into a base name and a declared file type.
package pattern

import "strings"

// Separators are tried in order; the first one present in a name wins,
// regardless of where it appears.
var Separators = []string{".", ":"}

// ReservedNames collide with the framework's own file roles and are never
// accepted as a base name.
var ReservedNames = []string{"page", "layout", "loading", "error"}

// Result is the outcome of parsing a directory name.
type Result struct {
	BaseName string
	FileType string
	Valid    bool
}

// Parse classifies name. It never fails: names without a separator yield an
// empty invalid Result, and reserved base names yield an invalid Result that
// still carries the parsed parts for logging.
func Parse(name string) Result {
	sep, ok := separatorFor(name)
	if !ok {
		return Result{}
	}

	base, fileType, _ := strings.Cut(name, sep)

	return Result{
		BaseName: base,
		FileType: fileType,
		Valid:    !IsReserved(base),
	}
}

// HasPattern reports whether name contains any recognised separator.
func HasPattern(name string) bool {
	_, ok := separatorFor(name)
	return ok
}

// BaseName returns the base name of a valid pattern, or name unchanged.
func BaseName(name string) string {
	if r := Parse(name); r.Valid {
		return r.BaseName
	}
	return name
}

// IsReserved reports whether base is one of ReservedNames.
func IsReserved(base string) bool {
	for _, r := range ReservedNames {
		if base == r {
			return true
		}
	}
	return false
}

func separatorFor(name string) (string, bool) {
	for _, sep := range Separators {
		if strings.Contains(name, sep) {
			return sep, true
		}
	}
	return "", false
}
