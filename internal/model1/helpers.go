package model1

import (
	"strconv"
	"strings"

	"github.com/fvbommel/sortorder"
)

// Less returns true if v1 sorts before v2. Ties are broken on the row ids.
func Less(isNumber bool, id1, id2, v1, v2 string) bool {
	if v1 == v2 {
		return sortorder.NaturalLess(id1, id2)
	}
	if isNumber {
		if f1, f2, ok := parseNumbers(v1, v2); ok {
			return f1 < f2
		}
	}
	return sortorder.NaturalLess(strings.ToLower(v1), strings.ToLower(v2))
}

func parseNumbers(v1, v2 string) (float64, float64, bool) {
	f1, err := strconv.ParseFloat(numeric(v1), 64)
	if err != nil {
		return 0, 0, false
	}
	f2, err := strconv.ParseFloat(numeric(v2), 64)
	if err != nil {
		return 0, 0, false
	}
	return f1, f2, true
}

// numeric strips thousand separators and a trailing unit such as "kW".
func numeric(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	return s
}
