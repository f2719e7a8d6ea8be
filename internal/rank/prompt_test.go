package rank

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChoice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		n       int
		want    int
		wantErr bool
	}{
		{input: "1", n: 3, want: 0},
		{input: "3", n: 3, want: 2},
		{input: " 2\n", n: 3, want: 1},
		{input: "0", n: 3, wantErr: true},
		{input: "4", n: 3, wantErr: true},
		{input: "5", n: 3, wantErr: true},
		{input: "-1", n: 3, wantErr: true},
		{input: "two", n: 3, wantErr: true},
		{input: "", n: 3, wantErr: true},
		{input: "1.5", n: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChoice(tt.input, tt.n)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSelection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func threeRanked() []Ranked {
	return []Ranked{
		{Branch: "main", Score: 3.2},
		{Branch: "dev", Score: 1.1},
		{Branch: "feature/x", Score: 0},
	}
}

func TestPrompter_Choose(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := &Prompter{In: strings.NewReader("2\n"), Out: &out}

	got, err := p.Choose(threeRanked())
	require.NoError(t, err)
	assert.Equal(t, "dev", got.Branch)
	assert.Contains(t, out.String(), "1) main")
	assert.Contains(t, out.String(), "3) feature/x")
	assert.Contains(t, out.String(), "[1-3]")
}

func TestPrompter_ChooseWithoutNewline(t *testing.T) {
	t.Parallel()

	p := &Prompter{In: strings.NewReader("3"), Out: &bytes.Buffer{}}
	got, err := p.Choose(threeRanked())
	require.NoError(t, err)
	assert.Equal(t, "feature/x", got.Branch)
}

func TestPrompter_OutOfRange(t *testing.T) {
	t.Parallel()

	p := &Prompter{In: strings.NewReader("5\n1\n"), Out: &bytes.Buffer{}}
	_, err := p.Choose(threeRanked())
	require.ErrorIs(t, err, ErrInvalidSelection, "no retry with the second answer")
}

func TestPrompter_NonNumeric(t *testing.T) {
	t.Parallel()

	p := &Prompter{In: strings.NewReader("dev\n"), Out: &bytes.Buffer{}}
	_, err := p.Choose(threeRanked())
	require.ErrorIs(t, err, ErrInvalidSelection)
}

func TestPrompter_NoInput(t *testing.T) {
	t.Parallel()

	p := &Prompter{In: strings.NewReader(""), Out: &bytes.Buffer{}}
	_, err := p.Choose(threeRanked())
	require.ErrorIs(t, err, ErrInvalidSelection)
}

func TestPrompter_Empty(t *testing.T) {
	t.Parallel()

	p := &Prompter{In: strings.NewReader("1\n"), Out: &bytes.Buffer{}}
	_, err := p.Choose(nil)
	require.ErrorIs(t, err, ErrInvalidSelection)
}

func TestPrompter_Label(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := &Prompter{
		In:    strings.NewReader("1\n"),
		Out:   &out,
		Label: func(r Ranked) string { return "<" + r.Branch + ">" },
	}
	_, err := p.Choose(threeRanked())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1) <main>")
}
