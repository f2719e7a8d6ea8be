package history

import (
	"bufio"
	"io"
	"slices"
	"strconv"
	"strings"
)

// MaxImportEntries is the default number of events imported from a reflog.
const MaxImportEntries = 25000

// checkoutPrefix is the reflog subject git writes for branch switches.
const checkoutPrefix = "checkout: moving from "

// ParseReflog extracts branch switches from reflog output produced by
//
//	git reflog --date=unix --format=%gd%x09%gs
//
// Each line looks like "HEAD@{1706000001}\tcheckout: moving from main to dev".
// The reflog lists newest first; the returned events are oldest first so
// they can be appended in chronological order. Lines that are not branch
// checkouts, or whose target is a detached commit, are ignored.
// Returns up to limit most recent events; limit <= 0 means MaxImportEntries.
func ParseReflog(r io.Reader, isBranch func(string) bool, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = MaxImportEntries
	}

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var events []Event
	for scanner.Scan() {
		ev, ok := parseReflogLine(scanner.Text())
		if !ok {
			continue
		}
		if isBranch != nil && !isBranch(ev.Branch) {
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	slices.Reverse(events)
	return trimToLimit(events, limit), nil
}

// parseReflogLine parses a single "<selector>\t<subject>" line.
func parseReflogLine(line string) (Event, bool) {
	selector, subject, ok := strings.Cut(line, "\t")
	if !ok {
		return Event{}, false
	}

	// Selector: HEAD@{<unix-ts>}
	open := strings.Index(selector, "@{")
	if open == -1 || !strings.HasSuffix(selector, "}") {
		return Event{}, false
	}
	ts, err := strconv.ParseInt(selector[open+2:len(selector)-1], 10, 64)
	if err != nil {
		return Event{}, false
	}

	if !strings.HasPrefix(subject, checkoutPrefix) {
		return Event{}, false
	}
	moves := strings.TrimPrefix(subject, checkoutPrefix)
	idx := strings.LastIndex(moves, " to ")
	if idx == -1 {
		return Event{}, false
	}
	target := strings.TrimSpace(moves[idx+len(" to "):])

	ev := Event{Timestamp: ts, Branch: target}
	if ev.Validate() != nil {
		return Event{}, false
	}
	return ev, true
}

// trimToLimit returns the last n entries from a slice.
// If len(entries) <= n, returns the original slice.
func trimToLimit(entries []Event, n int) []Event {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
