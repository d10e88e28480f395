package shell

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readLine prints label and reads one line. ok is false at end of input.
func (s *Shell) readLine(label string) (line string, ok bool) {
	fmt.Fprint(s.out, label)
	if !s.lines.Scan() {
		return "", false
	}
	return strings.TrimRight(s.lines.Text(), "\r"), true
}

// clearValue typed at a prompt with a default empties the field.
const clearValue = "-"

// readDefault reads a field whose current value is def. An empty answer
// keeps def and clearValue empties it.
func (s *Shell) readDefault(name, def string) (string, bool) {
	label := name + ": "
	if def != "" {
		label = fmt.Sprintf("%s [%s] (%s to clear): ", name, def, clearValue)
	}
	v, ok := s.readLine(label)
	if !ok {
		return "", false
	}
	switch {
	case def != "" && v == clearValue:
		return "", true
	case v == "":
		return def, true
	}
	return v, true
}

// readSecretDefault is readDefault for secrets; def is never echoed.
func (s *Shell) readSecretDefault(name, def string) (string, bool) {
	label := name + ": "
	if def != "" {
		label = name + " (enter to keep): "
	}
	v, err := s.secret(label)
	if err != nil {
		return "", false
	}
	if v == "" {
		return def, true
	}
	return v, true
}

// secretReader returns a reader that disables echo when in is a terminal
// and otherwise reads a plain line.
func (s *Shell) secretReader(in io.Reader) func(string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		// ReadPassword bypasses s.lines; lines already buffered there from a
		// multi-line paste are not seen by it.
		return func(label string) (string, error) {
			fmt.Fprint(s.out, label)
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(s.out)
			return string(b), err
		}
	}
	return func(label string) (string, error) {
		v, ok := s.readLine(label)
		if !ok {
			return "", io.EOF
		}
		return v, nil
	}
}
