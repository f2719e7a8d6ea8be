package rank

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInvalidSelection is returned for a choice that is not a number between
// 1 and the number of listed entries.
var ErrInvalidSelection = errors.New("invalid selection")

// ParseChoice converts a 1-based user answer into a 0-based index into a
// list of n entries.
func ParseChoice(input string, n int) (int, error) {
	s := strings.TrimSpace(input)
	choice, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, s)
	}
	if choice < 1 || choice > n {
		return 0, fmt.Errorf("%w: %d is out of range 1-%d", ErrInvalidSelection, choice, n)
	}
	return choice - 1, nil
}

// Prompter asks the user to pick from a numbered list. It reads one answer
// and does not retry.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	// Label renders one entry; nil prints the branch name.
	Label func(Ranked) string
}

// Choose prints ranked as a numbered list and returns the entry the user
// picks.
func (p *Prompter) Choose(ranked []Ranked) (Ranked, error) {
	if len(ranked) == 0 {
		return Ranked{}, fmt.Errorf("%w: nothing to choose from", ErrInvalidSelection)
	}

	label := p.Label
	if label == nil {
		label = func(r Ranked) string { return r.Branch }
	}

	width := len(strconv.Itoa(len(ranked)))
	for i, r := range ranked {
		fmt.Fprintf(p.Out, "%*d) %s\n", width, i+1, label(r))
	}
	fmt.Fprintf(p.Out, "Select a branch [1-%d]: ", len(ranked))

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return Ranked{}, fmt.Errorf("%w: no answer given", ErrInvalidSelection)
	}

	idx, err := ParseChoice(line, len(ranked))
	if err != nil {
		return Ranked{}, err
	}
	return ranked[idx], nil
}
