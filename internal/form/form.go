// Package form reads food descriptions from the user: a huh input on a
// terminal, a plain line prompt when input is piped.
package form

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
	"golang.org/x/text/message"

	"github.com/spboyer/kcal/internal/locale"
)

// Prompter asks for the next description. draft is the text the input
// should start with (the last failed submission, or empty). Prompt returns
// io.EOF when the user is done.
type Prompter interface {
	Prompt(ctx context.Context, draft string) (string, error)
}

// NewPrompter returns a huh form when in is a terminal and a line prompt
// otherwise.
func NewPrompter(in io.Reader, out io.Writer, p *message.Printer) Prompter {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &formPrompter{in: in, out: out, printer: p}
	}
	return NewLinePrompter(in, out, p)
}

type formPrompter struct {
	in      io.Reader
	out     io.Writer
	printer *message.Printer
}

func (f *formPrompter) Prompt(ctx context.Context, draft string) (string, error) {
	text := draft

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(f.printer.Sprintf(locale.KeyInputTitle)).
				Placeholder(f.printer.Sprintf(locale.KeyPlaceholder)).
				Value(&text),
		),
	).
		WithInput(f.in).
		WithOutput(f.out).
		WithShowHelp(false)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", io.EOF
		}
		return "", fmt.Errorf("input form failed: %w", err)
	}
	return text, nil
}

// LinePrompter reads one description per line. An empty line resubmits the
// pending draft, so a failed entry can be retried with a bare Enter.
type LinePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	printer *message.Printer
}

// NewLinePrompter creates a LinePrompter. The same scanner serves every
// Prompt call so buffered lines are never dropped.
func NewLinePrompter(in io.Reader, out io.Writer, p *message.Printer) *LinePrompter {
	return &LinePrompter{scanner: bufio.NewScanner(in), out: out, printer: p}
}

// Prompt implements Prompter.
func (l *LinePrompter) Prompt(ctx context.Context, draft string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if draft != "" {
		fmt.Fprintln(l.out, l.printer.Sprintf(locale.KeyRetryHint, draft)) //nolint:errcheck
	}
	fmt.Fprintf(l.out, "%s ", l.printer.Sprintf(locale.KeyInputTitle)) //nolint:errcheck

	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", io.EOF
	}
	line := l.scanner.Text()
	if strings.TrimSpace(line) == "" && draft != "" {
		return draft, nil
	}
	return line, nil
}
