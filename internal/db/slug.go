package db

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Slugify lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen, trimming hyphens from both ends.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	return b.String()
}

// NewPostSlug derives a unique post slug from a title. The time-based
// suffix guarantees uniqueness without a pre-check query; the slug is
// generated once at creation and never regenerated on update.
func NewPostSlug(title string, now time.Time) string {
	base := Slugify(title)
	if base == "" {
		base = "post"
	}
	return fmt.Sprintf("%s-%d", base, now.UnixMilli())
}
