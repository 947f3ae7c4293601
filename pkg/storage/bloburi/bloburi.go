// Package bloburi parses the scheme://container/path locators used by the
// blob store backends.
package bloburi

import (
	"fmt"
	"strings"
)

// Parse splits a scheme://container/path locator into its container and key.
// A URI without a scheme prefix is a caller contract violation.
func Parse(uri string) (container, key string, err error) {
	idx := strings.Index(uri, "://")
	if idx <= 0 {
		return "", "", fmt.Errorf("malformed blob URI %q: missing scheme", uri)
	}
	rest := uri[idx+3:]
	slash := strings.Index(rest, "/")
	if slash <= 0 || slash == len(rest)-1 {
		return "", "", fmt.Errorf("malformed blob URI %q: missing container or path", uri)
	}
	return rest[:slash], rest[slash+1:], nil
}
