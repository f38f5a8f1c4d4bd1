package view

import (
	"bytes"
	"io"
	"strings"

	"langton/src/universe"
)

const (
	cursorUp   = "\033[A"
	eraseLine  = "\033[2K"
	eraseBelow = "\033[J"
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
)

//ConsoleOut draws every frame to a plain terminal, erasing the previous frame first
type ConsoleOut struct {
	u       universe.Universe
	out     io.Writer
	painter *Painter
	width   func() int //terminal columns, 0 if unknown
	buf     bytes.Buffer
	drawn   int //screen lines of the previous frame
	err     error
}

//ConsoleOutOption configures a ConsoleOut
type ConsoleOutOption func(c *ConsoleOut)

//WithTerminalWidth tells ConsoleOut how wide the terminal is, so the rows wrapped by the terminal are erased too
func WithTerminalWidth(width func() int) ConsoleOutOption {
	return func(c *ConsoleOut) {
		c.width = width
	}
}

func NewConsoleOut(out io.Writer, painter *Painter, opts ...ConsoleOutOption) *ConsoleOut {
	c := &ConsoleOut{out: out, painter: painter, width: func() int { return 0 }}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	c.buf.WriteString(hideCursor)
}

//Refresh erases exactly the screen lines of the previous frame and draws the new one with a single write
func (c *ConsoleOut) Refresh(f universe.Frame) {
	if c.err != nil {
		return
	}
	c.buf.WriteString(strings.Repeat(cursorUp+eraseLine, c.drawn))
	if c.drawn > 0 {
		c.buf.WriteString("\r" + eraseBelow)
	}
	c.painter.Paint(&c.buf, f.Snapshot, 0, 0)
	c.drawn = c.screenLines(f.Snapshot)
	c.flush()
}

//screenLines is the number of terminal lines the snapshot takes, a row wider than the terminal wraps
func (c *ConsoleOut) screenLines(s universe.Snapshot) int {
	perRow := 1
	if w, rowWidth := c.width(), s.Columns*c.painter.CellWidth(); w > 0 && rowWidth > w {
		perRow = (rowWidth + w - 1) / w
	}
	return s.Rows * perRow
}

//Close restores the cursor, the last frame stays on the screen
//returns the first write error
func (c *ConsoleOut) Close() error {
	if c.err == nil {
		c.buf.WriteString(showCursor)
		c.flush()
	}
	return c.err
}

func (c *ConsoleOut) flush() {
	if c.buf.Len() == 0 {
		return
	}
	_, c.err = c.out.Write(c.buf.Bytes())
	c.buf.Reset()
}
