package slug

import (
	"strings"

	gosimple "github.com/gosimple/slug"
)

// symbols are dropped rather than spelled out as words.
var symbols = map[rune]string{
	'&': "-",
	'@': "-",
}

// Generate creates a URL-friendly slug from a title or name. Accented letters
// are transliterated, everything else that is not a letter or digit becomes a
// single hyphen, and leading or trailing hyphens are dropped.
//
// Examples:
//   - "Quà Tặng Tết" → "qua-tang-tet"
//   - "Hello   World!" → "hello-world"
//   - "Gifts & Co" → "gifts-co"
func Generate(name string) string {
	return gosimple.Make(gosimple.SubstituteRune(strings.TrimSpace(name), symbols))
}

// Resolve returns explicit when it is non-blank, otherwise a slug generated
// from name.
func Resolve(explicit, name string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	return Generate(name)
}
