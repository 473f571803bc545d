// Package clipboard hands share links to the user, through the system
// clipboard when one of the usual helpers is installed and as framed text
// otherwise.
package clipboard

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Method reports how a text reached the user.
type Method int

const (
	MethodClipboard Method = iota
	MethodManual
)

func (m Method) String() string {
	if m == MethodClipboard {
		return "clipboard"
	}
	return "manual"
}

type helper struct {
	name string
	args []string
}

// helpers are tried in order; the first one found on PATH wins.
var helpers = []helper{
	{name: "pbcopy"},
	{name: "wl-copy"},
	{name: "xclip", args: []string{"-selection", "clipboard"}},
	{name: "xsel", args: []string{"--clipboard", "--input"}},
	{name: "clip.exe"},
}

var (
	lookPath = exec.LookPath

	runCommand = func(ctx context.Context, path string, args []string, stdin io.Reader) error {
		cmd := exec.CommandContext(ctx, path, args...)
		cmd.Stdin = stdin
		return cmd.Run()
	}
)

// Deliverer copies text to the clipboard and falls back to out.
type Deliverer struct {
	out io.Writer
}

func New(out io.Writer) *Deliverer {
	return &Deliverer{out: out}
}

// Deliver succeeds when either the clipboard or the manual frame worked.
func (d *Deliverer) Deliver(ctx context.Context, text string) (Method, error) {
	if err := copyToClipboard(ctx, text); err == nil {
		return MethodClipboard, nil
	}

	if err := writeFrame(d.out, text); err != nil {
		return MethodManual, fmt.Errorf("deliver link: %w", err)
	}
	return MethodManual, nil
}

func copyToClipboard(ctx context.Context, text string) error {
	for _, h := range helpers {
		path, err := lookPath(h.name)
		if err != nil {
			continue
		}
		return runCommand(ctx, path, h.args, strings.NewReader(text))
	}
	return exec.ErrNotFound
}

func writeFrame(w io.Writer, text string) error {
	bar := strings.Repeat("-", len(text)+4)
	_, err := fmt.Fprintf(w, "Copy the link below:\n%s\n| %s |\n%s\n", bar, text, bar)
	return err
}
