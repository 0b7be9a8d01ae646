package scope

import (
	"strconv"
	"strings"
)

// splitKey parses "name/arity".
func splitKey(key string) (name string, arity int, ok bool) {
	i := strings.LastIndexByte(key, '/')
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return "", 0, false
	}
	return key[:i], n, true
}
