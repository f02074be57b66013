package wp

import (
	"fmt"
	"strconv"
	"strings"
)

// StringValue extracts a best-effort string from an arbitrary decoded JSON
// value. WordPress wraps many values in {"rendered": "..."} objects and ACF
// returns term/media objects carrying "name"/"label" or "url"/"source_url".
// Rules are tried in order; unrecognized shapes degrade to "".
func StringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]any:
		for _, key := range []string{"rendered", "name", "label", "url", "source_url"} {
			if s, ok := val[key].(string); ok && s != "" {
				return s
			}
		}
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}

// ListValue renders a multi-value custom field (e.g. several tags) as one
// string: each element goes through StringValue, empties are dropped, the
// rest are joined with ", " in API order. Non-sequence values defer to
// StringValue.
func ListValue(v any) string {
	items, ok := v.([]any)
	if !ok {
		return StringValue(v)
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		if s := StringValue(item); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// ISODate converts the WordPress "YYYY-MM-DD HH:mm:ss" date convention to
// ISO 8601 by replacing the first space with 'T'. Strings with no space
// pass through unchanged, so the conversion is idempotent. No calendar
// validation happens here; consumers treat unparsable dates as "no date".
func ISODate(v any) string {
	s := StringValue(v)
	if s == "" {
		return ""
	}
	return strings.Replace(s, " ", "T", 1)
}

// isDigits reports whether s is non-empty and purely decimal digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
