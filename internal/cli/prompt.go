package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Prompt identifies a question asked when the output file already exists
type Prompt int

const (
	// PromptOutputExists offers overwrite, merge or cancel
	PromptOutputExists Prompt = iota
	// PromptOutputExistsPatch offers overwrite or cancel
	PromptOutputExistsPatch
)

// Choice is the answer to a Prompt
type Choice int

const (
	ChoiceCancel Choice = iota
	ChoiceOverwrite
	ChoiceMerge
)

func (c Choice) String() string {
	switch c {
	case ChoiceOverwrite:
		return "overwrite"
	case ChoiceMerge:
		return "merge"
	default:
		return "cancel"
	}
}

// Prompter is the interactive surface the fetch command needs
type Prompter interface {
	// Choose asks p and returns the answer; unknown input means ChoiceCancel
	Choose(p Prompt) (Choice, error)
	// WaitForKey prints message and blocks until a key is pressed
	WaitForKey(message string)
}

// Text returns the menu shown for p
func (p Prompt) Text() string {
	if p == PromptOutputExistsPatch {
		return "Output file already exists!\n1. Overwrite file\n2. Cancel"
	}
	return "Output file already exists!\n1. Overwrite file\n2. Merge content (prioritizes new items)\n3. Cancel"
}

// ChoiceForKey maps a key press to the answer for p
func ChoiceForKey(p Prompt, key byte) Choice {
	switch key {
	case '1':
		return ChoiceOverwrite
	case '2':
		if p == PromptOutputExists {
			return ChoiceMerge
		}
	}
	return ChoiceCancel
}

// TerminalPrompter reads single key presses from a terminal. When the input
// is not a terminal it reads a line and uses its first byte.
type TerminalPrompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

// NewTerminalPrompter creates a prompter over in and out
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out, reader: bufio.NewReader(in)}
}

// Choose prints the menu for p and reads one key
func (t *TerminalPrompter) Choose(p Prompt) (Choice, error) {
	fmt.Fprintln(t.out, p.Text())
	key, err := t.readKey()
	if err != nil && err != io.EOF {
		return ChoiceCancel, fmt.Errorf("failed to read answer: %w", err)
	}
	return ChoiceForKey(p, key), nil
}

//nolint:errcheck // nothing useful to do when the exit key cannot be read
func (t *TerminalPrompter) WaitForKey(message string) {
	fmt.Fprintln(t.out, message)
	t.readKey()
}

func (t *TerminalPrompter) readKey() (byte, error) {
	if f, ok := t.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		state, err := term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, state)
			var buf [1]byte
			if _, err := f.Read(buf[:]); err != nil {
				return 0, err
			}
			return buf[0], nil
		}
	}

	line, err := t.reader.ReadString('\n')
	if len(line) == 0 {
		return 0, err
	}
	return line[0], nil
}
