package wallet

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

type PromptKind string

const (
	PromptSignature   PromptKind = "signature"
	PromptTransaction PromptKind = "transaction"
)

// Prompt describes what the user is asked to approve.
type Prompt struct {
	Kind   PromptKind
	Title  string
	Detail string
}

// Confirmer stands in for the wallet's approval dialog. Returning false means
// the user declined.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

type ConfirmerFunc func(ctx context.Context, p Prompt) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, p Prompt) (bool, error) { return f(ctx, p) }

// AutoConfirm approves everything. Used with --yes.
var AutoConfirm = ConfirmerFunc(func(context.Context, Prompt) (bool, error) { return true, nil })

// TerminalConfirmer asks on out and reads a y/N answer from in.
type TerminalConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: bufio.NewReader(in), out: out}
}

func (t *TerminalConfirmer) Confirm(ctx context.Context, p Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(t.out, "\n[%s] %s\n", p.Kind, p.Title)
	if p.Detail != "" {
		fmt.Fprintln(t.out, p.Detail)
	}
	fmt.Fprint(t.out, "Approve? [y/N]: ")

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
