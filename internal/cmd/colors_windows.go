//go:build windows

package cmd

// ttyColumns is not implemented on Windows; terminalWidth uses $COLUMNS.
func ttyColumns(uintptr) int {
	return 0
}
