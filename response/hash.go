package response

import (
	"crypto/sha1"
	"fmt"
)

// ETag derives a strong entity tag from val, e.g. a file's modification time.
func ETag(val string) string {
	return fmt.Sprintf(`"%x"`, sha1.Sum([]byte(val)))
}
