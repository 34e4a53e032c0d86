package content

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// ArticleID derives a stable, URL-safe identifier for an article that has
// none stored: a slug of the title (at most 40 characters) plus the first
// 8 hex characters of an md5 over "title-year". The same (title, year)
// pair always yields the same ID.
func ArticleID(title string, year int) string {
	slug := strings.ToLower(title)
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = whitespace.ReplaceAllString(slug, "-")
	if len(slug) > 40 {
		slug = slug[:40]
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s-%d", title, year)))
	return slug + "-" + hex.EncodeToString(sum[:])[:8]
}
