package api

import (
	"fmt"
	"strings"
)

// pathParam returns the single path segment after prefix.
func pathParam(path, prefix string) (string, bool) {
	v := strings.TrimPrefix(path, prefix)
	if v == "" || v == path || strings.Contains(v, "/") {
		return "", false
	}
	return v, true
}

func errMissing(field string) error {
	return fmt.Errorf("missing %s", field)
}
