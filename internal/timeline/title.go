package timeline

import (
	"net/url"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeriveDisplayName builds a human-readable clip name from a source URL:
// basename with the extension stripped, separators collapsed to spaces,
// title-cased. Unusable input falls back to "Untitled Clip".
func DeriveDisplayName(sourceURL string) string {
	base := sourceBasename(sourceURL)
	base = strings.TrimSuffix(base, path.Ext(base))

	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	name := strings.TrimSpace(cleaned.String())
	if name == "" {
		return "Untitled Clip"
	}
	return cases.Title(language.Und).String(name)
}

func sourceBasename(sourceURL string) string {
	raw := strings.TrimSpace(sourceURL)
	if raw == "" {
		return ""
	}
	if parsed, err := url.Parse(raw); err == nil && parsed.Path != "" {
		raw = parsed.Path
	}
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return path.Base(raw)
}
