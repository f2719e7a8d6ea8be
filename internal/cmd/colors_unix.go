//go:build !windows

package cmd

import "golang.org/x/sys/unix"

// ttyColumns asks the terminal behind fd for its column count. 0 means the
// fd is not a terminal or the terminal did not say.
func ttyColumns(fd uintptr) int {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(ws.Col)
}
