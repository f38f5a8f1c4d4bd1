package view

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"langton/src/universe"
)

func TestConsoleOut_erasesPreviousFrame(t *testing.T) {
	tbl := asciiTable(t)
	var out bytes.Buffer
	c := NewConsoleOut(&out, NewPainter(tbl, "A", false))
	c.Register(nil)

	first := snapshot(t, tbl, universe.Ant{Row: 0, Column: 0}, "...", "...")
	c.Refresh(universe.Frame{Snapshot: first})
	assert.Equal(t, hideCursor+"A..\n...\n", out.String())

	out.Reset()
	second := snapshot(t, tbl, universe.Ant{Row: 1, Column: 0}, "#..", "...")
	c.Refresh(universe.Frame{Snapshot: second})
	assert.Equal(t, cursorUp+eraseLine+cursorUp+eraseLine+"\r"+eraseBelow+"#..\nA..\n", out.String())

	out.Reset()
	require.NoError(t, c.Close())
	assert.Equal(t, showCursor, out.String())
}

func TestConsoleOut_erasesWrappedRows(t *testing.T) {
	tbl := asciiTable(t)
	for _, tc := range []struct {
		width int
		lines int
	}{
		{0, 2},  //unknown
		{80, 2}, //fits
		{5, 2},  //exactly as wide as the terminal
		{4, 4},  //two lines per row
		{2, 6},  //three lines per row
	} {
		var out bytes.Buffer
		width := tc.width
		c := NewConsoleOut(&out, NewPainter(tbl, "@", false), WithTerminalWidth(func() int { return width }))

		s := snapshot(t, tbl, universe.Ant{}, ".....", ".....")
		c.Refresh(universe.Frame{Snapshot: s})
		out.Reset()
		c.Refresh(universe.Frame{Snapshot: s})
		assert.Equal(t, tc.lines, strings.Count(out.String(), cursorUp+eraseLine), "width %d", tc.width)
		assert.True(t, strings.HasPrefix(out.String(), strings.Repeat(cursorUp+eraseLine, tc.lines)+"\r"+eraseBelow), "width %d", tc.width)
	}
}

type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("broken pipe")
}

func TestConsoleOut_writeError(t *testing.T) {
	tbl := asciiTable(t)
	w := &failingWriter{}
	c := NewConsoleOut(w, NewPainter(tbl, "A", false))

	s := snapshot(t, tbl, universe.Ant{}, "..")
	c.Refresh(universe.Frame{Snapshot: s})
	c.Refresh(universe.Frame{Snapshot: s})
	assert.EqualError(t, c.Close(), "broken pipe")
	assert.Equal(t, 1, w.writes)
}

func TestConsoleOut_withUniverse(t *testing.T) {
	tbl := asciiTable(t)
	o := universe.Options{Rows: 3, Columns: 4, FPS: 1000, MaxSteps: 6, Seed: 9}
	u, err := universe.NewBaseUniverse(&o, tbl, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	c := NewConsoleOut(&out, NewPainter(tbl, "@", false))
	u.RegisterViewer(c)
	require.NoError(t, u.Run(context.Background()))
	require.NoError(t, c.Close())

	//six frames before the steps and the final one, every frame after the first erases three lines
	s := out.String()
	assert.Equal(t, 6, strings.Count(s, "\r"))
	assert.Equal(t, 6*3, strings.Count(s, cursorUp+eraseLine))
	assert.Equal(t, 6, strings.Count(s, eraseBelow))
	assert.Equal(t, 7*3, strings.Count(s, "\n"))
	assert.Equal(t, 7, strings.Count(s, "@"))
	assert.True(t, strings.HasPrefix(s, hideCursor))
	assert.True(t, strings.HasSuffix(s, showCursor))
}
