package renderer

import (
	"strings"
	"time"
)

// DateFallback is shown for posts without a created_at value.
const DateFallback = "Date not available"

// dateLayouts covers the timestamp shapes the API has been seen to emit.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders a timestamp as a long-form en-US date, e.g.
// "March 5, 2024". Anything unparseable yields DateFallback, never an
// error.
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return DateFallback
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.Format("January 2, 2006")
		}
	}
	return DateFallback
}
