package templates

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([^{}\s]+)\s*\}\}`)

// Variables are the values available to a template.
type Variables struct {
	// Name is the final directory base name.
	Name string
	// PascalName is Name with its first letter upper-cased.
	PascalName string
	// Path is the directory path relative to the watch root using "/".
	Path string
}

// NewVariables builds Variables for a directory name and its root-relative path.
func NewVariables(name, relPath string) Variables {
	return Variables{
		Name:       name,
		PascalName: ToPascalCase(name),
		Path:       NormalizePath(relPath),
	}
}

// Map returns the placeholder keys understood by Render.
func (v Variables) Map() map[string]string {
	return map[string]string{
		"name": v.Name,
		"Name": v.PascalName,
		"path": v.Path,
	}
}

// Render substitutes every {{ key }} in text with vars[key]. Whitespace inside
// the braces is ignored. Unknown keys are left untouched.
func Render(text string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		if value, ok := vars[key]; ok {
			return value
		}
		return match
	})
}

// ToPascalCase upper-cases the first ASCII letter of s.
func ToPascalCase(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

// NormalizePath converts OS separators to "/".
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
