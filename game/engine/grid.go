package engine

import (
	"encoding/json"
	"fmt"
)

// Direction is one of the four compass edges of a cell
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists the edges in scan order (up, down, left, right)
var Directions = [4]Direction{Up, Down, Left, Right}

var directionNames = [4]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Opposite returns the edge facing back toward this one
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta returns the x,y offset of the neighbor in direction d
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

// ParseDirection converts "up"/"down"/"left"/"right" to a Direction
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), true
		}
	}
	return 0, false
}

// Connections is a 4-bit mask of edges, one bit per Direction
type Connections uint8

// Has reports whether the edge in direction d exists
func (c Connections) Has(d Direction) bool {
	return c&(1<<d) != 0
}

// With returns c with the edge in direction d set
func (c Connections) With(d Direction) Connections {
	return c | 1<<d
}

// Without returns c with the edge in direction d cleared
func (c Connections) Without(d Direction) Connections {
	return c &^ (1 << d)
}

// List returns the set edges in scan order
func (c Connections) List() []Direction {
	var dirs []Direction
	for _, d := range Directions {
		if c.Has(d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// MarshalJSON encodes the mask as a list of direction names
func (c Connections) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, 4)
	for _, d := range c.List() {
		names = append(names, d.String())
	}
	return json.Marshal(names)
}

// UnmarshalJSON decodes a list of direction names
func (c *Connections) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	var mask Connections
	for _, name := range names {
		d, ok := ParseDirection(name)
		if !ok {
			return fmt.Errorf("unknown direction %q", name)
		}
		mask = mask.With(d)
	}
	*c = mask
	return nil
}

// NewGrid creates a size x size grid of Empty cells
func NewGrid(size int) [][]Cell {
	grid := make([][]Cell, size)
	for y := range grid {
		grid[y] = make([]Cell, size)
		for x := range grid[y] {
			grid[y][x] = Cell{Type: Empty}
		}
	}
	return grid
}

// Clone returns a deep copy of the cell including its payload
func (c Cell) Clone() Cell {
	out := c
	if c.Plant != nil {
		p := *c.Plant
		out.Plant = &p
	}
	if c.City != nil {
		p := *c.City
		out.City = &p
	}
	if c.Line != nil {
		p := *c.Line
		out.Line = &p
	}
	if c.Substation != nil {
		p := *c.Substation
		out.Substation = &p
	}
	if c.Battery != nil {
		p := *c.Battery
		out.Battery = &p
	}
	return out
}

// CloneGrid returns a deep copy of the grid
func CloneGrid(grid [][]Cell) [][]Cell {
	out := make([][]Cell, len(grid))
	for y, row := range grid {
		out[y] = make([]Cell, len(row))
		for x, cell := range row {
			out[y][x] = cell.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the state. The returned state shares nothing
// mutable with s.
func (s GameState) Clone() GameState {
	out := s
	out.Grid = CloneGrid(s.Grid)
	out.TechTree = make(map[TechID]ResearchTech, len(s.TechTree))
	for id, tech := range s.TechTree {
		tech.Dependencies = append([]TechID(nil), tech.Dependencies...)
		out.TechTree[id] = tech
	}
	out.EventLog = append([]string(nil), s.EventLog...)
	if s.ActiveEvent != nil {
		ev := *s.ActiveEvent
		out.ActiveEvent = &ev
	}
	return out
}

// InBounds reports whether (x, y) lies on the grid
func InBounds(grid [][]Cell, x, y int) bool {
	return y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y])
}

// Neighbor returns the position next to p in direction d
func Neighbor(p Position, d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// DirectionBetween returns the direction from a to an orthogonally adjacent b
func DirectionBetween(a, b Position) (Direction, bool) {
	for _, d := range Directions {
		if Neighbor(a, d) == b {
			return d, true
		}
	}
	return 0, false
}

// Connect sets the edge between two adjacent cells on both endpoints
func Connect(grid [][]Cell, a, b Position) bool {
	d, ok := DirectionBetween(a, b)
	if !ok || !InBounds(grid, a.X, a.Y) || !InBounds(grid, b.X, b.Y) {
		return false
	}
	grid[a.Y][a.X].Connections = grid[a.Y][a.X].Connections.With(d)
	grid[b.Y][b.X].Connections = grid[b.Y][b.X].Connections.With(d.Opposite())
	return true
}

// Sever clears every edge touching p, on p and on its four neighbors
func Sever(grid [][]Cell, p Position) {
	for _, d := range Directions {
		n := Neighbor(p, d)
		if InBounds(grid, n.X, n.Y) {
			grid[n.Y][n.X].Connections = grid[n.Y][n.X].Connections.Without(d.Opposite())
		}
	}
	if InBounds(grid, p.X, p.Y) {
		grid[p.Y][p.X].Connections = 0
	}
}

// CheckSymmetry returns an error naming the first one-sided edge, or nil.
// Edges pointing off the grid are reported as well.
func CheckSymmetry(grid [][]Cell) error {
	for y, row := range grid {
		for x, cell := range row {
			p := Position{X: x, Y: y}
			for _, d := range cell.Connections.List() {
				n := Neighbor(p, d)
				if !InBounds(grid, n.X, n.Y) {
					return fmt.Errorf("cell (%d,%d) has %s edge off the grid", x, y, d)
				}
				if !grid[n.Y][n.X].Connections.Has(d.Opposite()) {
					return fmt.Errorf("cell (%d,%d) has %s edge without a matching edge on (%d,%d)", x, y, d, n.X, n.Y)
				}
			}
		}
	}
	return nil
}
