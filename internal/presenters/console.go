package presenters

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	titleColor   = color.New(color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
)

// Console writes user-facing status lines. Colour is dropped automatically
// when the output is not a terminal.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Title(title string) {
	titleColor.Fprintf(c.out, "\n=== %s ===\n", title)
}

func (c *Console) Success(format string, args ...any) {
	c.line(successColor, "[+]", format, args...)
}

func (c *Console) Warn(format string, args ...any) {
	c.line(warnColor, "[!]", format, args...)
}

func (c *Console) Fail(format string, args ...any) {
	c.line(failColor, "[-]", format, args...)
}

// Lines prints pre-built lines, the first as a failure and the rest as
// continuation lines.
func (c *Console) Lines(lines []string) {
	for i, l := range lines {
		if i == 0 {
			c.Fail("%s", l)
			continue
		}
		fmt.Fprintf(c.out, "    %s\n", l)
	}
}

func (c *Console) line(col *color.Color, marker, format string, args ...any) {
	col.Fprint(c.out, marker)
	fmt.Fprintf(c.out, " %s\n", fmt.Sprintf(format, args...))
}
