package slugutil

import "github.com/gosimple/slug"

const maxSlugLen = 120

// Make builds a URL-safe slug from a Spanish source string, capped at the
// length the product collection indexes on.
func Make(source string) string {
	s := slug.MakeLang(source, "es")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
		for len(s) > 0 && s[len(s)-1] == '-' {
			s = s[:len(s)-1]
		}
	}
	return s
}
