// Package history stores the append-only log of branch switches for a
// repository. Each record is one line of the form "<unix-seconds> <branch>".
package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/runger/hop/internal/logging"
	"github.com/runger/hop/internal/repo"
)

var (
	// ErrStoreIO wraps any failure to read or write the log file.
	ErrStoreIO = errors.New("history store I/O error")

	// ErrInvalidEvent is returned by Append for events that cannot be
	// represented as a single log record.
	ErrInvalidEvent = errors.New("invalid switch event")

	// ErrMalformedLine is returned by ParseLine for records that do not
	// have exactly a timestamp and a branch name.
	ErrMalformedLine = errors.New("malformed history line")
)

// MaxTimestamp is the last second of year 9999. Records outside
// [0, MaxTimestamp] are rejected so age arithmetic cannot overflow.
const MaxTimestamp int64 = 253402300799

// Event is a single recorded branch switch.
type Event struct {
	Timestamp int64 // Unix seconds
	Branch    string
}

// Validate checks that the event can be written as one record.
func (e Event) Validate() error {
	if e.Branch == "" {
		return fmt.Errorf("%w: empty branch name", ErrInvalidEvent)
	}
	if strings.ContainsFunc(e.Branch, unicode.IsSpace) {
		return fmt.Errorf("%w: branch name %q contains whitespace", ErrInvalidEvent, e.Branch)
	}
	if e.Timestamp < 0 || e.Timestamp > MaxTimestamp {
		return fmt.Errorf("%w: timestamp %d out of range", ErrInvalidEvent, e.Timestamp)
	}
	return nil
}

// Line returns the record for the event, including the trailing newline.
func (e Event) Line() string {
	return strconv.FormatInt(e.Timestamp, 10) + " " + e.Branch + "\n"
}

// ParseLine parses one log record.
func ParseLine(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Event{}, fmt.Errorf("%w: expected 2 fields, got %d", ErrMalformedLine, len(fields))
	}
	ts, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("%w: bad timestamp %q", ErrMalformedLine, fields[0])
	}
	if ts < 0 || ts > MaxTimestamp {
		return Event{}, fmt.Errorf("%w: timestamp %d out of range", ErrMalformedLine, ts)
	}
	return Event{Timestamp: ts, Branch: fields[1]}, nil
}

// Log is an in-memory snapshot of the history.
type Log []Event

// Events yields the snapshot in storage order.
func (l Log) Events() iter.Seq[Event] {
	return slices.Values(l)
}

// Branches returns the distinct branch names in first-seen order.
func (l Log) Branches() []string {
	return distinct(l.Events())
}

// Store is the file-backed switch log.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore returns a store for the log file at path. The file is created
// lazily on the first Append.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{path: path, logger: logger}
}

// Open returns the store for the repository's tracking log.
func Open(rc repo.Context, logger *slog.Logger) *Store {
	return NewStore(rc.LogPath, logger)
}

// Path returns the log file path.
func (s *Store) Path() string {
	return s.path
}

// Append writes one event to the end of the log. The record is written with
// a single write under an exclusive lock so concurrent hooks never produce
// interleaved lines.
func (s *Store) Append(ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create tracking directory: %w", ErrStoreIO, err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrStoreIO, s.path, err)
	}
	defer f.Close()

	unlock, err := lockFile(f)
	if err != nil {
		return fmt.Errorf("%w: lock %s: %w", ErrStoreIO, s.path, err)
	}
	defer unlock()

	record := ev.Line()
	// A previous writer may have died mid-record; start on a fresh line.
	if needsNewline(f) {
		record = "\n" + record
	}

	if _, err := f.WriteString(record); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStoreIO, s.path, err)
	}

	s.logger.Debug("recorded branch switch", "branch", ev.Branch, "ts", ev.Timestamp)
	return nil
}

// needsNewline reports whether the file is non-empty and does not end in '\n'.
func needsNewline(f *os.File) bool {
	info, err := f.Stat()
	if err != nil || info.Size() == 0 {
		return false
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false
	}
	return last[0] != '\n'
}

// maxRecordLength bounds one log record. Longer lines are garbage; they are
// discarded in pieces and skipped like any other malformed line.
const maxRecordLength = 64 * 1024

// Events yields the logged events in storage order. Every call re-opens the
// file. A missing file yields nothing; malformed or over-long lines are
// skipped with a warning and read errors end the sequence early.
func (s *Store) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		file, err := os.Open(s.path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.logger.Warn("history log unreadable, treating as empty", "path", s.path, "error", err)
			}
			return
		}
		defer file.Close()

		reader := bufio.NewReader(file)
		lineNo := 0
		for {
			line, tooLong, err := readRecord(reader)
			if err != nil && !errors.Is(err, io.EOF) {
				s.logger.Warn("history log read failed", "path", s.path, "line", lineNo+1, "error", err)
				return
			}
			atEOF := err != nil
			if atEOF && line == "" && !tooLong {
				return
			}
			lineNo++

			switch {
			case tooLong:
				s.logger.Warn("skipping history line", "path", s.path, "line", lineNo,
					"error", fmt.Errorf("%w: longer than %d bytes", ErrMalformedLine, maxRecordLength))
			case strings.TrimSpace(line) == "":
			default:
				ev, err := ParseLine(line)
				if err != nil {
					s.logger.Warn("skipping history line", "path", s.path, "line", lineNo, "error", err)
				} else if !yield(ev) {
					return
				}
			}

			if atEOF {
				return
			}
		}
	}
}

// readRecord reads one line without its terminator. A line longer than
// maxRecordLength is consumed to its end and reported as tooLong.
func readRecord(r *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(chunk) > maxRecordLength+1 {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return strings.TrimRight(string(buf), "\r\n"), tooLong, err
	}
}

// Load reads the whole log into memory so a query sees one consistent snapshot.
func (s *Store) Load() Log {
	return Log(slices.Collect(s.Events()))
}

// Branches returns the distinct tracked branch names in first-seen order.
func (s *Store) Branches() []string {
	return distinct(s.Events())
}

func distinct(events iter.Seq[Event]) []string {
	seen := make(map[string]bool)
	var names []string
	for ev := range events {
		if seen[ev.Branch] {
			continue
		}
		seen[ev.Branch] = true
		names = append(names, ev.Branch)
	}
	return names
}
