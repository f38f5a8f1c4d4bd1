package universe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"langton/src/rules"
)

func TestNewGrid_invalidDimensions(t *testing.T) {
	for _, d := range [][2]int{{0, 1}, {1, 0}, {-3, 5}, {5, -3}, {0, 0}} {
		g, err := NewGrid(d[0], d[1], 0)
		assert.Nil(t, g)
		assert.True(t, errors.Is(err, ErrInvalidDimensions), "%v", d)
	}
}

func TestNewGrid_filledWithDefault(t *testing.T) {
	g, err := NewGrid(3, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 4, g.Columns())
	for _, s := range g.Cells() {
		assert.Equal(t, rules.State(2), s)
	}
}

func TestGrid_wrapStaysInside(t *testing.T) {
	for rows := 1; rows <= 7; rows++ {
		for columns := 1; columns <= 7; columns++ {
			g, err := NewGrid(rows, columns, 0)
			require.NoError(t, err)
			for off := -50; off <= 50; off++ {
				r, c := g.Wrap(off, -off)
				require.True(t, r >= 0 && r < rows, "row %d for %d in %dx%d", r, off, rows, columns)
				require.True(t, c >= 0 && c < columns, "column %d for %d in %dx%d", c, -off, rows, columns)
				g.Get(off, -off*3)
			}
		}
	}
}

func TestGrid_setTouchesOneCell(t *testing.T) {
	g, err := NewGrid(4, 5, 0)
	require.NoError(t, err)

	g.Set(-1, 7, 1)
	assert.Equal(t, rules.State(1), g.Get(3, 2))
	assert.Equal(t, rules.State(1), g.Get(-1, -3))

	changed := 0
	for _, s := range g.Cells() {
		if s != 0 {
			changed++
		}
	}
	assert.Equal(t, 1, changed)
}

func TestGrid_cellsIsACopy(t *testing.T) {
	g, err := NewGrid(2, 2, 0)
	require.NoError(t, err)
	cells := g.Cells()
	cells[0] = 1
	assert.Equal(t, rules.State(0), g.Get(0, 0))
}

func TestGrid_fill(t *testing.T) {
	g, err := NewGrid(2, 3, 0)
	require.NoError(t, err)
	g.Set(1, 1, 1)
	g.Fill(0)
	assert.Equal(t, make([]rules.State, 6), g.Cells())
}
