package utils

import (
	"strconv"
	"strings"
)

func ToStringSlice(slice []any) []string {
	stringSlice := make([]string, 0)
	for _, v := range slice {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}

// ClaimString renders a decoded JSON claim value as the string form used in
// authorization contexts. Unknown shapes render as the empty string.
func ClaimString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case []any:
		return strings.Join(ToStringSlice(value), ",")
	default:
		return ""
	}
}
