package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
	"github.com/t0fik/dnf-plugin-beadm/internal/terminal"
)

var isInteractive = terminal.Streams
var runConfirmForm = func(form *huh.Form) error { return form.Run() }

// confirmer answers the BE reuse question. --assumeno and --assumeyes answer
// without asking; a terminal gets a huh prompt, anything else a line prompt.
type confirmer struct {
	in        io.Reader
	out       io.Writer
	assumeYes bool
	assumeNo  bool
}

func newConfirmer(in io.Reader, out io.Writer, opts *rootOptions) *confirmer {
	return &confirmer{in: in, out: out, assumeYes: opts.assumeYes, assumeNo: opts.assumeNo}
}

// Confirm asks prompt and defaults to no.
func (c *confirmer) Confirm(prompt string) (bool, error) {
	switch {
	case c.assumeNo:
		_, _ = fmt.Fprintf(c.out, messages.PromptAssumedFmt, prompt, "no")
		return false, nil
	case c.assumeYes:
		_, _ = fmt.Fprintf(c.out, messages.PromptAssumedFmt, prompt, "yes")
		return true, nil
	}
	if isInteractive(c.in, c.out) {
		answer := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative(messages.PromptYes).
				Negative(messages.PromptNo).
				Value(&answer),
		))
		if err := runConfirmForm(form); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return false, nil
			}
			return false, err
		}
		return answer, nil
	}
	return promptYesNo(c.in, c.out, prompt, false)
}

// promptYesNo asks prompt until it gets y/yes or n/no. An empty answer picks
// defaultYes; end of input declines. The answer is read without buffering so
// whatever follows it on in is left for the package manager.
func promptYesNo(in io.Reader, out io.Writer, prompt string, defaultYes bool) (bool, error) {
	format := messages.PromptNoDefaultFmt
	if defaultYes {
		format = messages.PromptYesDefaultFmt
	}
	for {
		if _, err := fmt.Fprintf(out, format, prompt); err != nil {
			return false, err
		}
		line, eof, err := readAnswer(in)
		if err != nil {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		switch {
		case answer == "" && eof:
			return false, nil
		case answer == "":
			return defaultYes, nil
		case answer == "y", answer == "yes":
			return true, nil
		case answer == "n", answer == "no":
			return false, nil
		case eof:
			return false, fmt.Errorf(messages.PromptInvalidResponse, answer)
		}
		if _, err := fmt.Fprintln(out, messages.PromptRetryYesNo); err != nil {
			return false, err
		}
	}
}

// readAnswer reads one line from in a byte at a time, stopping at the newline.
// The bool reports that input ended before a newline.
func readAnswer(in io.Reader) (string, bool, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n == 1 {
			if buf[0] == '\n' {
				return sb.String(), false, nil
			}
			sb.WriteByte(buf[0])
		}
		switch {
		case errors.Is(err, io.EOF):
			return sb.String(), true, nil
		case err != nil:
			return "", false, err
		}
	}
}
