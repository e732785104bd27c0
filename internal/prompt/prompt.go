// Package prompt abstracts interactive text input so that callers can run
// against a real terminal or a scripted responder in tests.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TextPrompt asks a user for input. All methods block until the user
// responds.
type TextPrompt interface {
	// Ask prompts for a line of input with echo.
	Ask(label string) (string, error)
	// AskSecret prompts for a line of input without echo when possible.
	AskSecret(label string) (string, error)
	// Confirm prompts for a Y/N answer, re-asking until it gets one.
	Confirm(label string) (bool, error)
}

// Terminal is a TextPrompt over stdin/stdout. Secrets are read without echo
// when stdin is a terminal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewTerminal returns a Terminal prompt bound to stdin and stdout.
func NewTerminal() *Terminal {
	return &Terminal{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		fd:  int(os.Stdin.Fd()),
	}
}

// NewTerminalWith returns a Terminal prompt over the given reader and writer.
// Secret input falls back to echoed reads since there is no terminal fd.
func NewTerminalWith(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, fd: -1}
}

func (p *Terminal) Ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *Terminal) AskSecret(label string) (string, error) {
	if p.fd < 0 || !term.IsTerminal(p.fd) {
		return p.Ask(label)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	secret, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(secret), nil
}

func (p *Terminal) Confirm(label string) (bool, error) {
	for {
		answer, err := p.Ask(label + " (Y/N)")
		if err != nil {
			return false, err
		}
		if yes, ok := parseYesNo(answer); ok {
			return yes, nil
		}
	}
}

// parseYesNo interprets the first character of answer as Y or N.
func parseYesNo(answer string) (yes bool, ok bool) {
	answer = strings.ToUpper(strings.TrimSpace(answer))
	if answer == "" {
		return false, false
	}
	switch answer[0] {
	case 'Y':
		return true, true
	case 'N':
		return false, true
	}
	return false, false
}

// Script is a TextPrompt that replays canned responses, for tests.
type Script struct {
	responses []string
	next      int
}

// NewScript returns a Script that answers prompts with responses in order.
func NewScript(responses ...string) *Script {
	return &Script{responses: responses}
}

func (s *Script) Ask(label string) (string, error) {
	return s.take(label)
}

func (s *Script) AskSecret(label string) (string, error) {
	return s.take(label)
}

func (s *Script) Confirm(label string) (bool, error) {
	answer, err := s.take(label)
	if err != nil {
		return false, err
	}
	yes, ok := parseYesNo(answer)
	if !ok {
		return false, fmt.Errorf("scripted response %q to %q is not Y/N", answer, label)
	}
	return yes, nil
}

func (s *Script) take(label string) (string, error) {
	if s.next >= len(s.responses) {
		return "", fmt.Errorf("no scripted response left for prompt %q", label)
	}
	r := s.responses[s.next]
	s.next++
	return r, nil
}
