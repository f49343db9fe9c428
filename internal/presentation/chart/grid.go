package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/drunkard/pkg/domain"
)

// Series is a set of points drawn with a single marker.
type Series struct {
	Label  string
	Marker rune
	Points []domain.Location
}

// Plot draws series on a width x height character grid scaled to the
// bounding box of all points and the origin. Axes through the origin are
// drawn first; later series overwrite earlier ones on shared cells.
func Plot(series []Series, width, height int) string {
	if width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	for _, s := range series {
		for _, p := range s.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if maxX == minX {
		minX, maxX = minX-1, maxX+1
	}
	if maxY == minY {
		minY, maxY = minY-1, maxY+1
	}

	col := func(x float64) int {
		return int(math.Round((x - minX) / (maxX - minX) * float64(width-1)))
	}
	row := func(y float64) int {
		return height - 1 - int(math.Round((y-minY)/(maxY-minY)*float64(height-1)))
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}

	oc, or := col(0), row(0)
	for c := range width {
		grid[or][c] = '-'
	}
	for r := range height {
		grid[r][oc] = '|'
	}
	grid[or][oc] = '+'

	for _, s := range series {
		for _, p := range s.Points {
			grid[row(p.Y)][col(p.X)] = s.Marker
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(strings.TrimRight(string(line), " "))
		sb.WriteByte('\n')
	}
	sb.WriteString(fmt.Sprintf("x: [%g, %g]  y: [%g, %g]\n", minX, maxX, minY, maxY))
	for _, s := range series {
		sb.WriteString(fmt.Sprintf("%c %s\n", s.Marker, s.Label))
	}
	return sb.String()
}
