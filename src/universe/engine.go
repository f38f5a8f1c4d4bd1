package universe

import (
	"fmt"
	"math/rand/v2"

	"langton/src/rules"
)

//Snapshot is an immutable copy of the simulation state, safe to render while the engine keeps stepping
type Snapshot struct {
	Rows    int
	Columns int
	Cells   []rules.State //row-major
	Ant     Ant
	Step    int //the number of steps applied before the snapshot was taken
}

//At returns the state of the cell at row, column
func (s Snapshot) At(row int, column int) rules.State {
	return s.Cells[row*s.Columns+column]
}

//Engine owns the grid and the ant and applies the rule table one step at a time
type Engine struct {
	table  *rules.Table
	grid   *Grid
	ant    Ant
	rng    *rand.Rand
	counts []int //cells per state
	steps  int
}

//NewEngine creates the engine with an empty grid and the ant placed by rng
func NewEngine(rows int, columns int, table *rules.Table, rng *rand.Rand) (*Engine, error) {
	g, err := NewGrid(rows, columns, table.Default())
	if err != nil {
		return nil, err
	}
	e := &Engine{
		table:  table,
		grid:   g,
		rng:    rng,
		counts: make([]int, table.Len()),
	}
	e.Reset()
	return e, nil
}

//Reset clears the grid to the default state and places the ant at a random cell with a random heading
func (e *Engine) Reset() {
	e.grid.Fill(e.table.Default())
	for i := range e.counts {
		e.counts[i] = 0
	}
	e.counts[e.table.Default()] = e.grid.Rows() * e.grid.Columns()
	e.steps = 0
	e.ant = Ant{
		Row:     e.rng.IntN(e.grid.Rows()),
		Column:  e.rng.IntN(e.grid.Columns()),
		Heading: Heading(e.rng.IntN(headings)),
	}
}

//Step applies the rule of the cell under the ant: the cell takes the flip state,
//the ant turns and moves one cell forward
//the engine is left untouched if the cell state has no rule
func (e *Engine) Step() error {
	row, column := e.ant.Row, e.ant.Column
	s := e.grid.Get(row, column)
	r, err := e.table.Lookup(s)
	if err != nil {
		return fmt.Errorf("step %d, ant at %v: %w", e.steps+1, e.ant, err)
	}
	e.grid.Set(row, column, r.Flip)
	e.counts[s]--
	e.counts[r.Flip]++
	e.ant.Turn(r.Turn)
	e.ant.Advance(e.grid.Rows(), e.grid.Columns())
	e.steps++
	return nil
}

//FlipCell sets the cell at row, column to the flip state of its rule, the ant stays where it is
func (e *Engine) FlipCell(row int, column int) error {
	s := e.grid.Get(row, column)
	r, err := e.table.Lookup(s)
	if err != nil {
		return fmt.Errorf("flip (%d, %d): %w", row, column, err)
	}
	e.grid.Set(row, column, r.Flip)
	e.counts[s]--
	e.counts[r.Flip]++
	return nil
}

//Place puts the ant at the given position and heading
func (e *Engine) Place(a Ant) {
	a.Row, a.Column = e.grid.Wrap(a.Row, a.Column)
	a.Heading = Heading(wrap(int(a.Heading), headings))
	e.ant = a
}

func (e *Engine) Ant() Ant {
	return e.ant
}

//Grid returns the engine's grid, changes made through it bypass the step counters
func (e *Engine) Grid() *Grid {
	return e.grid
}

func (e *Engine) Rules() *rules.Table {
	return e.table
}

//Steps returns the number of steps applied since the last reset
func (e *Engine) Steps() int {
	return e.steps
}

//Counts returns the number of cells in each state, indexed by state
func (e *Engine) Counts() []int {
	return append([]int(nil), e.counts...)
}

//Snapshot copies the current state
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Rows:    e.grid.Rows(),
		Columns: e.grid.Columns(),
		Cells:   e.grid.Cells(),
		Ant:     e.ant,
		Step:    e.steps,
	}
}
