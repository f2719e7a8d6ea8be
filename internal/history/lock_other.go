//go:build !unix

package history

import "os"

// lockFile is a no-op where flock is unavailable; appends still go through a
// single O_APPEND write.
func lockFile(*os.File) (func(), error) {
	return func() {}, nil
}
