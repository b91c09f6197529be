package http

import (
	"fmt"
	"math"
	"strings"

	"eneagramas-site/internal/domain"
)

// diagramOrder lists station ids clockwise from the top of the circle.
var diagramOrder = []int{9, 8, 1, 2, 3, 4, 5, 6, 7}

const diagramRadius = 35.0

// DiagramPoint is a station placed on the circle, in percent of the box.
type DiagramPoint struct {
	Station domain.Station
	X, Y    float64
}

// Diagram holds the nine points and the inner figures as SVG point lists.
type Diagram struct {
	Points   []DiagramPoint
	Triangle string
	Hexagon  string
}

func position(index, total int, radius float64) (float64, float64) {
	angle := -math.Pi/2 + float64(index)*2*math.Pi/float64(total)
	return round2(50 + radius*math.Cos(angle)), round2(50 + radius*math.Sin(angle))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BuildDiagram places the dataset's stations. Stations missing from the
// dataset are skipped; their slot on the circle stays empty.
func BuildDiagram(ds domain.Dataset) Diagram {
	var d Diagram
	for i, id := range diagramOrder {
		st, ok := ds.StationByID(id)
		if !ok {
			continue
		}
		x, y := position(i, len(diagramOrder), diagramRadius)
		d.Points = append(d.Points, DiagramPoint{Station: st, X: x, Y: y})
	}
	d.Triangle = polygon(4, 7, 0)
	d.Hexagon = polygon(1, 2, 3, 5, 6, 8)
	return d
}

func polygon(slots ...int) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		x, y := position(s, len(diagramOrder), diagramRadius)
		parts = append(parts, fmt.Sprintf("%g,%g", x, y))
	}
	return strings.Join(parts, " ")
}
