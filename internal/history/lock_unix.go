//go:build unix

package history

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockFile takes an exclusive advisory lock on f, blocking until it is held.
func lockFile(f *os.File) (func(), error) {
	fd := int(f.Fd()) //nolint:gosec // G115: fd fits in int
	for {
		err := unix.Flock(fd, unix.LOCK_EX)
		if err == nil {
			break
		}
		if err != unix.EINTR {
			return nil, err
		}
	}
	return func() {
		_ = unix.Flock(fd, unix.LOCK_UN)
	}, nil
}
