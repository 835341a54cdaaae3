package advanced

import (
	"embed"
	"log"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
)

// This file parses the svg fixtures into triangulation input. This is not a
// full (or even correct) svg parser. Polygons become closed constraint loops,
// polylines become open constraint chains, and circle centers become loose
// points. If anything goes wrong, it panics.
//
// Fixtures are available by name in this fixtures/ directory, sans extension.

//go:embed fixtures
var fixtures embed.FS

func LoadFixture(name string) Input {
	fixture, err := fixtures.Open("fixtures/" + name + ".svg")
	if err != nil {
		log.Fatalf("Could not load fixture %q: %v", name, err)
	}

	defer fixture.Close()
	rootEl, err := svgparser.Parse(fixture, true)
	if err != nil {
		log.Fatalf("Failed to parse fixture %q: %v", name, err)
	}

	var in Input
	addChain := func(pointString string, closed bool) {
		points := parsePoints(pointString)
		first := len(in.Points)
		in.Points = append(in.Points, points...)
		for i := 1; i < len(points); i++ {
			in.Edges = append(in.Edges, Edge{first + i - 1, first + i})
		}
		if closed && len(points) > 2 {
			in.Edges = append(in.Edges, Edge{first + len(points) - 1, first})
		}
	}

	for _, el := range rootEl.FindAll("polygon") {
		addChain(el.Attributes["points"], true)
	}
	for _, el := range rootEl.FindAll("polyline") {
		addChain(el.Attributes["points"], false)
	}
	for _, el := range rootEl.FindAll("circle") {
		in.Points = append(in.Points, Point{
			X: parseFloat(el.Attributes["cx"]),
			Y: parseFloat(el.Attributes["cy"]),
		})
	}
	if len(in.Points) == 0 {
		log.Fatalf("No geometry found in fixture %q", name)
	}
	return in
}

func parsePoints(pointString string) []Point {
	pointStrings := strings.Fields(pointString)
	points := make([]Point, 0, len(pointStrings))
	for _, pointString := range pointStrings {
		pointStrings := strings.Split(pointString, ",")
		if len(pointStrings) != 2 {
			log.Fatalf("Invalid point string %q", pointString)
		}
		points = append(points, Point{parseFloat(pointStrings[0]), parseFloat(pointStrings[1])})
	}
	return points
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Fatalf("Invalid number %q: %v", s, err)
	}
	return v
}
