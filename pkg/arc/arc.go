// Package arc builds SVG path commands for partial circles.
//
// Dual-type rings are drawn as two half circles: [Upper] from −π to 0 and
// [Lower] from 0 to π, each stroked in one type's color.
package arc

import (
	"math"
	"strconv"
	"strings"
)

// Half-circle angle ranges. Angles are in radians, measured clockwise from
// the positive x axis in SVG coordinates.
var (
	Upper = Range{Start: -math.Pi, End: 0}
	Lower = Range{Start: 0, End: math.Pi}
)

// Range is an angular interval.
type Range struct {
	Start, End float64
}

// Len returns End − Start.
func (r Range) Len() float64 { return r.End - r.Start }

// Verb is an SVG path command letter.
type Verb byte

const (
	MoveTo Verb = 'M'
	ArcTo  Verb = 'A'
)

// Command is one SVG path command with its numeric arguments.
type Command struct {
	Verb Verb
	Args []float64
}

func (c Command) String() string {
	var b strings.Builder
	b.WriteByte(byte(c.Verb))
	for _, a := range c.Args {
		b.WriteByte(' ')
		b.WriteString(formatNum(a))
	}
	return b.String()
}

// HalfCirclePath returns the commands tracing the arc of the circle centered
// at (cx, cy) with radius r from angle start to end. An empty range yields
// no commands. The path is left open.
func HalfCirclePath(cx, cy, r, start, end float64) []Command {
	length := end - start
	if length == 0 {
		return nil
	}
	fromX, fromY := cx+r*math.Cos(start), cy+r*math.Sin(start)
	toX, toY := cx+r*math.Cos(end), cy+r*math.Sin(end)

	large := 0.0
	if math.Abs(length) > math.Pi {
		large = 1
	}
	sweep := 1.0
	if length < 0 {
		sweep = 0
	}
	return []Command{
		{Verb: MoveTo, Args: []float64{fromX, fromY}},
		{Verb: ArcTo, Args: []float64{r, r, 0, large, sweep, toX, toY}},
	}
}

// Path is HalfCirclePath over a Range.
func Path(cx, cy, r float64, rng Range) []Command {
	return HalfCirclePath(cx, cy, r, rng.Start, rng.End)
}

// Join renders commands as an SVG path string.
func Join(cmds []Command) string {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// formatNum prints v with at most three decimals and no trailing zeros.
func formatNum(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
