// Package shell implements the interactive command loop: it reads commands,
// runs them against a Session and prints the results.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atinyakov/OTPKeeper/internal/client/storage"
	"github.com/atinyakov/OTPKeeper/internal/models"
	"github.com/atinyakov/OTPKeeper/internal/otp"
	"github.com/atinyakov/OTPKeeper/internal/service"
	"go.uber.org/zap"
)

const (
	clearScreen = "\x1B[2J\x1B[1;1H"
	prompt      = ">"
	help        = "1. add <label> <data>\n" +
		"2. show <label>\n" +
		"3. remove <label>\n" +
		"4. list\n" +
		"5. export <label> [issuer]\n" +
		"6. help\n" +
		"7. exit\n"
)

// Session is the set of store operations the shell drives.
type Session interface {
	Add(label, data string) (models.Outcome, error)
	Show(label string) (string, time.Duration, error)
	Remove(label string) (models.Outcome, error)
	List() ([]string, int)
	Export(label, issuer string) (string, error)
	Commit(outcome models.Outcome) error
}

// Shell reads commands from in and writes results to out.
type Shell struct {
	// AutoSave commits after every command that changes the store.
	AutoSave bool

	raw io.Reader
	in  *bufio.Reader
	out io.Writer
	log *zap.Logger
}

// New creates a Shell and prepares the console behind out for escape
// sequences. The password prompt and the command loop share the same
// buffered reader over in.
func New(in io.Reader, out io.Writer, log *zap.Logger) *Shell {
	if log == nil {
		log = zap.NewNop()
	}
	if err := enableVirtualTerminal(out); err != nil {
		log.Debug("enable virtual terminal processing", zap.Error(err))
	}
	return &Shell{
		AutoSave: true,
		raw:      in,
		in:       bufio.NewReader(in),
		out:      out,
		log:      log,
	}
}

// Run executes commands until exit or end of input and returns the outcome
// that has not been committed yet. The caller commits it.
func (s *Shell) Run(sess Session) models.Outcome {
	pending := models.Unchanged

	s.print(clearScreen)
	s.usage()
	for {
		s.print(prompt)
		line, err := s.readLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Error("read command", zap.Error(err))
			}
			s.println("")
			return pending
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		var outcome models.Outcome
		switch cmd := args[0]; {
		case strings.EqualFold(cmd, "add"):
			outcome = s.add(sess, args[1:])
		case strings.EqualFold(cmd, "show"):
			s.show(sess, args[1:])
		case strings.EqualFold(cmd, "remove"):
			outcome = s.remove(sess, args[1:])
		case strings.EqualFold(cmd, "list"):
			s.list(sess)
		case strings.EqualFold(cmd, "export"):
			s.export(sess, args[1:])
		case strings.EqualFold(cmd, "help"):
			s.print(clearScreen)
			s.usage()
		case strings.EqualFold(cmd, "exit"):
			s.print(clearScreen)
			return pending
		default:
			s.printf("Unknown command: '%s'\n", cmd)
		}

		pending = pending.Merge(outcome)
		if s.AutoSave && pending == models.Changed {
			if err := sess.Commit(pending); err != nil {
				s.println("Cannot write store file")
				continue
			}
			pending = models.Unchanged
		}
	}
}

func (s *Shell) add(sess Session, args []string) models.Outcome {
	label, data := arg(args, 0), ""
	if len(args) > 1 {
		// base32 is often shown in groups separated by spaces
		data = strings.Join(args[1:], "")
	}
	outcome, err := sess.Add(label, data)
	if err != nil {
		s.fail(err)
		return models.Unchanged
	}
	s.println("Added")
	return outcome
}

func (s *Shell) show(sess Session, args []string) {
	code, remaining, err := sess.Show(arg(args, 0))
	if err != nil {
		s.fail(err)
		return
	}
	s.print(clearScreen)
	s.printf("Pass: %s (valid for %ds)\n", code, int64((remaining+time.Second-1)/time.Second))
}

func (s *Shell) remove(sess Session, args []string) models.Outcome {
	outcome, err := sess.Remove(arg(args, 0))
	if err != nil {
		s.fail(err)
		return models.Unchanged
	}
	s.println("Removed")
	return outcome
}

func (s *Shell) list(sess Session) {
	labels, unreadable := sess.List()
	if len(labels) == 0 && unreadable == 0 {
		s.println("No entries")
		return
	}
	for _, label := range labels {
		s.println(label)
	}
	if unreadable > 0 {
		s.printf("%d entries cannot be read\n", unreadable)
	}
}

func (s *Shell) export(sess Session, args []string) {
	uri, err := sess.Export(arg(args, 0), strings.Join(args[min(len(args), 1):], " "))
	if err != nil {
		s.fail(err)
		return
	}
	s.println(uri)
	code, err := renderQR(uri)
	if err != nil {
		s.log.Warn("render qr code", zap.Error(err))
		return
	}
	s.print(code)
}

// fail prints the message for a command error.
func (s *Shell) fail(err error) {
	s.println(message(err))
}

func message(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingLabel):
		return "Missing <label>"
	case errors.Is(err, storage.ErrReservedLabel):
		return "Invalid <label>"
	case errors.Is(err, service.ErrMissingData):
		return "Missing <data>"
	case errors.Is(err, otp.ErrInvalidBase32), errors.Is(err, otp.ErrEmptySeed):
		return "<data> is not base32"
	case errors.Is(err, otp.ErrSeedTooLarge), errors.Is(err, storage.ErrSecretTooLarge):
		return "<data> is too long"
	case errors.Is(err, storage.ErrNotFound):
		return "Unknown <label>"
	case errors.Is(err, storage.ErrLabelMismatch):
		return "<label> collides with another entry"
	case errors.Is(err, storage.ErrAuthFailure):
		return "Entry for <label> is damaged"
	default:
		return "Error: " + err.Error()
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (s *Shell) usage() {
	s.print("Usage:\n" + help)
}

func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) print(text string) {
	_, _ = io.WriteString(s.out, text)
}

func (s *Shell) println(text string) {
	_, _ = io.WriteString(s.out, text+"\n")
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
