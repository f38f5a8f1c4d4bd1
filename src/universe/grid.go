package universe

import (
	"errors"
	"fmt"

	"langton/src/rules"
)

//ErrInvalidDimensions is returned for a grid with a non-positive size
var ErrInvalidDimensions = errors.New("invalid dimensions")

//Grid is a toroidal field of cell states stored row by row in one buffer
//any coordinate is valid, it wraps around the edges
type Grid struct {
	rows    int
	columns int
	cells   []rules.State
}

//NewGrid creates the grid with all cells in the state def
func NewGrid(rows int, columns int, def rules.State) (*Grid, error) {
	if rows <= 0 || columns <= 0 {
		return nil, fmt.Errorf("%w: %v x %v", ErrInvalidDimensions, rows, columns)
	}
	g := &Grid{rows: rows, columns: columns, cells: make([]rules.State, rows*columns)}
	g.Fill(def)
	return g, nil
}

func (g *Grid) Rows() int {
	return g.rows
}

func (g *Grid) Columns() int {
	return g.columns
}

//Wrap maps any coordinates to the grid
func (g *Grid) Wrap(row int, column int) (int, int) {
	return wrap(row, g.rows), wrap(column, g.columns)
}

//Get returns the state of the cell at row, column
func (g *Grid) Get(row int, column int) rules.State {
	return g.cells[g.index(row, column)]
}

//Set overwrites the state of the cell at row, column, no other cell is touched
func (g *Grid) Set(row int, column int, s rules.State) {
	g.cells[g.index(row, column)] = s
}

//Fill sets all cells to the state s
func (g *Grid) Fill(s rules.State) {
	for i := range g.cells {
		g.cells[i] = s
	}
}

//Cells returns a copy of the cells in row-major order
func (g *Grid) Cells() []rules.State {
	return append([]rules.State(nil), g.cells...)
}

func (g *Grid) index(row int, column int) int {
	row, column = g.Wrap(row, column)
	return row*g.columns + column
}

//wrap normalizes c into [0, n) for any sign of c
func wrap(c int, n int) int {
	return ((c % n) + n) % n
}
