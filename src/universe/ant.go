package universe

import (
	"fmt"

	"langton/src/rules"
)

//Heading is the direction the ant faces
//the order is fixed: turning left decrements the heading, turning right increments it
type Heading int

const (
	North Heading = iota
	West
	South
	East
	headings = 4
)

var headingNames = [headings]string{"north", "west", "south", "east"}

//heading vectors as row, column deltas
var moves = [headings][2]int{
	North: {-1, 0},
	West:  {0, -1},
	South: {1, 0},
	East:  {0, 1},
}

func (h Heading) String() string {
	if h < 0 || h >= headings {
		return fmt.Sprintf("Heading(%d)", int(h))
	}
	return headingNames[h]
}

//Turn returns the heading after turning to the t side
func (h Heading) Turn(t rules.Turn) Heading {
	if t == rules.Left {
		return Heading(wrap(int(h)-1, headings))
	}
	return Heading(wrap(int(h)+1, headings))
}

//Ant is the position and heading of the ant
type Ant struct {
	Row     int
	Column  int
	Heading Heading
}

//Turn changes the heading, the position is kept
func (a *Ant) Turn(t rules.Turn) {
	a.Heading = a.Heading.Turn(t)
}

//Advance moves the ant one cell forward on a rows x columns torus, the heading is kept
func (a *Ant) Advance(rows int, columns int) {
	m := moves[a.Heading]
	a.Row = wrap(a.Row+m[0], rows)
	a.Column = wrap(a.Column+m[1], columns)
}

func (a Ant) String() string {
	return fmt.Sprintf("(%d, %d) %v", a.Row, a.Column, a.Heading)
}
