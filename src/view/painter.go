package view

import (
	"bytes"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/mattn/go-runewidth"

	"langton/src/rules"
	"langton/src/universe"
)

//DefaultAnt is the ant glyph
const DefaultAnt = "🐜"

//Painter turns snapshots into text, one line per row and one cell per column
//all cells are padded to the widest symbol so the columns line up
type Painter struct {
	table *rules.Table
	cells []string //rendered symbol per state
	ant   string
	width int
}

//NewPainter prepares the symbols of the table and the ant glyph, colors are used when colors is true
func NewPainter(table *rules.Table, ant string, colors bool) *Painter {
	if ant == "" {
		ant = DefaultAnt
	}
	au := aurora.NewAurora(colors)

	width := runewidth.StringWidth(ant)
	for i := 0; i < table.Len(); i++ {
		r, _ := table.Lookup(rules.State(i))
		if w := runewidth.StringWidth(r.Symbol); w > width {
			width = w
		}
	}

	p := &Painter{table: table, width: width, cells: make([]string, table.Len())}
	for i := range p.cells {
		r, _ := table.Lookup(rules.State(i))
		p.cells[i] = au.Colorize(pad(r.Symbol, width), r.Color).String()
	}
	p.ant = au.Bold(pad(ant, width)).String()
	return p
}

//CellWidth returns the display width of one cell
func (p *Painter) CellWidth() int {
	return p.width
}

//Paint writes the snapshot into b, at most maxRows rows and maxColumns cells per row (0 means no limit)
//the ant glyph replaces the symbol of the cell the ant stands on
//returns true if the snapshot was cropped
func (p *Painter) Paint(b *bytes.Buffer, s universe.Snapshot, maxRows int, maxColumns int) (cropped bool) {
	rows, columns := s.Rows, s.Columns
	if maxRows > 0 && rows > maxRows {
		rows, cropped = maxRows, true
	}
	if maxColumns > 0 && columns > maxColumns {
		columns, cropped = maxColumns, true
	}
	for row := 0; row < rows; row++ {
		for column := 0; column < columns; column++ {
			if row == s.Ant.Row && column == s.Ant.Column {
				b.WriteString(p.ant)
				continue
			}
			b.WriteString(p.symbol(s.At(row, column)))
		}
		b.WriteByte('\n')
	}
	return cropped
}

func (p *Painter) symbol(s rules.State) string {
	if s < 0 || int(s) >= len(p.cells) {
		return pad("?", p.width)
	}
	return p.cells[s]
}

func pad(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
