// Package query parses list-valued URL query parameters.
package query

import (
	"strconv"
	"strings"
)

// Int64Slice parses string values into int64 IDs. ok is false if any entry
// is not an integer.
func Int64Slice(vals []string) (ids []int64, ok bool) {
	ids = make([]int64, 0, len(vals))
	for _, v := range vals {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
