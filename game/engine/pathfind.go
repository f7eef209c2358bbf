package engine

import (
	"container/heap"
)

// pathNode is a frontier entry. seq records insertion order so equal
// priorities pop first-in first-out.
type pathNode struct {
	pos Position
	g   int
	f   int
	seq int
}

type frontier []pathNode

func (q frontier) Len() int { return len(q) }
func (q frontier) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}
func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *frontier) Push(x any)   { *q = append(*q, x.(pathNode)) }
func (q *frontier) Pop() any {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}

// FindPath returns a shortest orthogonal route from start to end, inclusive
// of both. Intermediate cells must be Empty; end may hold anything so lines
// can terminate on existing infrastructure. An empty slice means no route.
// The line kind does not change routing; it is accepted so callers pass the
// tool they are pricing.
func FindPath(start, end Position, grid [][]Cell, _ LineKind) []Position {
	if !InBounds(grid, start.X, start.Y) || !InBounds(grid, end.X, end.Y) {
		return []Position{}
	}

	gScore := map[Position]int{start: 0}
	cameFrom := make(map[Position]Position)
	closed := make(map[Position]bool)

	seq := 0
	open := &frontier{{pos: start, g: 0, f: ManhattanDistance(start, end), seq: seq}}

	for open.Len() > 0 {
		cur := heap.Pop(open).(pathNode)
		if closed[cur.pos] || cur.g > gScore[cur.pos] {
			continue
		}
		if cur.pos == end {
			return reconstructPath(cameFrom, start, end)
		}
		closed[cur.pos] = true

		for _, d := range Directions {
			n := Neighbor(cur.pos, d)
			if !InBounds(grid, n.X, n.Y) || closed[n] {
				continue
			}
			if n != end && grid[n.Y][n.X].Type != Empty {
				continue
			}
			tentative := cur.g + 1
			if old, seen := gScore[n]; seen && tentative >= old {
				continue
			}
			gScore[n] = tentative
			cameFrom[n] = cur.pos
			seq++
			heap.Push(open, pathNode{pos: n, g: tentative, f: tentative + ManhattanDistance(n, end), seq: seq})
		}
	}

	return []Position{}
}

func reconstructPath(cameFrom map[Position]Position, start, end Position) []Position {
	path := []Position{end}
	for cur := end; cur != start; {
		cur = cameFrom[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathCost returns the build price of a routed path
func PathCost(path []Position, kind LineKind, config *GameConfig) int {
	if len(path) < 2 {
		return 0
	}
	return (len(path) - 1) * config.LineCost(kind)
}
