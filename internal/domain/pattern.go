package domain

// Pattern is a named winning shape on a 5x5 card.
type Pattern string

const (
	PatternRow1 Pattern = "row_1"
	PatternRow2 Pattern = "row_2"
	PatternRow3 Pattern = "row_3"
	PatternRow4 Pattern = "row_4"
	PatternRow5 Pattern = "row_5"

	PatternColB Pattern = "col_b"
	PatternColI Pattern = "col_i"
	PatternColN Pattern = "col_n"
	PatternColG Pattern = "col_g"
	PatternColO Pattern = "col_o"

	PatternDiagonalDown Pattern = "diagonal_down"
	PatternDiagonalUp   Pattern = "diagonal_up"
	PatternFourCorners  Pattern = "four_corners"
)

// Cell is a (row, col) coordinate on the card grid.
type Cell struct {
	Row int
	Col int
}

var patternCells = map[Pattern][]Cell{
	PatternRow1: rowCells(0),
	PatternRow2: rowCells(1),
	PatternRow3: rowCells(2),
	PatternRow4: rowCells(3),
	PatternRow5: rowCells(4),

	PatternColB: colCells(0),
	PatternColI: colCells(1),
	PatternColN: colCells(2),
	PatternColG: colCells(3),
	PatternColO: colCells(4),

	PatternDiagonalDown: {{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}},
	PatternDiagonalUp:   {{4, 0}, {3, 1}, {2, 2}, {1, 3}, {0, 4}},
	PatternFourCorners:  {{0, 0}, {0, 4}, {4, 0}, {4, 4}},
}

func rowCells(row int) []Cell {
	cells := make([]Cell, GridSize)
	for col := 0; col < GridSize; col++ {
		cells[col] = Cell{Row: row, Col: col}
	}
	return cells
}

func colCells(col int) []Cell {
	cells := make([]Cell, GridSize)
	for row := 0; row < GridSize; row++ {
		cells[row] = Cell{Row: row, Col: col}
	}
	return cells
}

// AllPatterns returns every pattern kind in a stable order.
func AllPatterns() []Pattern {
	return []Pattern{
		PatternRow1, PatternRow2, PatternRow3, PatternRow4, PatternRow5,
		PatternColB, PatternColI, PatternColN, PatternColG, PatternColO,
		PatternDiagonalDown, PatternDiagonalUp, PatternFourCorners,
	}
}

// PatternCells returns the fixed coordinate set a pattern requires, or false
// for an unknown pattern kind.
func PatternCells(p Pattern) ([]Cell, bool) {
	cells, ok := patternCells[p]
	return cells, ok
}
