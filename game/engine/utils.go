package engine

import (
	"fmt"
	"math"
	"strings"
)

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// CountPoweredCities returns how many cities are powered and how many exist
func CountPoweredCities(grid [][]Cell) (powered, total int) {
	for _, row := range grid {
		for _, cell := range row {
			if cell.Type != City {
				continue
			}
			total++
			if cell.City.IsPowered {
				powered++
			}
		}
	}
	return powered, total
}

// CountDamagedLines counts damaged transmission segments
func CountDamagedLines(grid [][]Cell) int {
	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell.Type == Transmission && cell.IsDamaged {
				count++
			}
		}
	}
	return count
}

// roundInt rounds half away from zero
func roundInt(v float64) int {
	return int(math.Round(v))
}

// DescribeCell returns a one-line human-readable summary of a cell
func DescribeCell(cell Cell) string {
	var b strings.Builder
	b.WriteString(string(cell.Type))
	switch cell.Type {
	case Plant:
		p := cell.Plant
		fmt.Fprintf(&b, " %s L%d output=%d/%d MW maint=$%d next upgrade=$%d", p.Kind, p.Level, p.Output, p.BaseOutput, p.Maintenance, p.Cost)
	case City:
		c := cell.City
		fmt.Fprintf(&b, " %s demand=%d MW (base %d) powered=%t", c.Name, c.Demand, c.BaseDemand, c.IsPowered)
	case Battery:
		bt := cell.Battery
		fmt.Fprintf(&b, " charge=%d/%d MWh rate=%d/%d MW maint=$%d", bt.Charge, bt.Capacity, bt.MaxChargeRate, bt.MaxDischargeRate, bt.Maintenance)
	case Substation:
		fmt.Fprintf(&b, " maint=$%d", cell.Substation.Maintenance)
	case Transmission:
		if cell.Line != nil && cell.Line.IsStormProof {
			b.WriteString(" storm-proof")
		}
	}
	if cell.IsDamaged {
		b.WriteString(" DAMAGED")
	}
	if dirs := cell.Connections.List(); len(dirs) > 0 {
		names := make([]string, len(dirs))
		for i, d := range dirs {
			names[i] = d.String()
		}
		fmt.Fprintf(&b, " connections=[%s]", strings.Join(names, ","))
	}
	return b.String()
}
