package shell

import (
	"errors"
	"fmt"

	"golang.org/x/term"
)

// ErrEmptyPassword is returned when the user enters nothing at the prompt.
var ErrEmptyPassword = errors.New("empty password")

type fileDescriptor interface {
	Fd() uintptr
}

// ReadPassword asks for the store password. On a terminal the input is not
// echoed; otherwise one line is read from the shell's input.
func (s *Shell) ReadPassword() ([]byte, error) {
	s.println("Please enter your phrase")

	if f, ok := s.raw.(fileDescriptor); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		s.println("")
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		if len(password) == 0 {
			return nil, ErrEmptyPassword
		}
		return password, nil
	}

	line, err := s.readLine()
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if line == "" {
		return nil, ErrEmptyPassword
	}
	return []byte(line), nil
}
