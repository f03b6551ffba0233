package tenant

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug derives a url-safe slug from the organisation name and
// suffixes it with the base36 creation time in milliseconds.
func GenerateSlug(name string, now time.Time) string {
	base := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	base = strings.Trim(base, "-")
	suffix := strconv.FormatInt(now.UnixMilli(), 36)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
