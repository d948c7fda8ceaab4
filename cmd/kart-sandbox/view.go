package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/kart-pilot/race"
	"github.com/lixenwraith/kart-pilot/track"
	"github.com/lixenwraith/kart-pilot/vmath"
)

const (
	hudRows = 3
	// cellAspect is the height of a terminal cell over its width
	cellAspect = 2.0
)

var (
	styleRoad   = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)
	styleZipper = tcell.StyleDefault.Background(tcell.ColorDarkGoldenrod)
	styleStart  = tcell.StyleDefault.Background(tcell.ColorWhite)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleRival  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// cell is the precomputed surface of one screen cell
type cell uint8

const (
	cellGrass cell = iota
	cellRoad
	cellZipper
	cellStart
)

// view projects the track's XZ plane onto the screen, +Z pointing up
type view struct {
	minX, maxZ float64
	sx, sz     float64 // Cells per world unit
	cols, rows int
	cells      []cell
}

func newView(g *track.QuadGraph, cols, rows int) *view {
	v := &view{cols: max(0, cols), rows: max(0, rows)}
	if g.NodeCount() == 0 || v.cols < 3 || v.rows < 3 {
		return v
	}

	minX, minZ, maxX, maxZ := g.Bounds()
	spanX, spanZ := math.Max(maxX-minX, 1), math.Max(maxZ-minZ, 1)
	v.minX, v.maxZ = minX, maxZ
	v.sx = math.Min(float64(v.cols-2)/spanX, cellAspect*float64(v.rows-2)/spanZ)
	v.sz = v.sx / cellAspect

	v.cells = make([]cell, v.cols*v.rows)
	for row := 0; row < v.rows; row++ {
		for col := 0; col < v.cols; col++ {
			n := g.NearestNode(v.world(col, row))
			switch {
			case n == track.Unknown:
				continue
			case n == 0:
				v.cells[row*v.cols+col] = cellStart
			case g.IsZipper(n):
				v.cells[row*v.cols+col] = cellZipper
			default:
				v.cells[row*v.cols+col] = cellRoad
			}
		}
	}
	return v
}

// world returns the world point at the centre of a cell
func (v *view) world(col, row int) vmath.Vec3F {
	return vmath.Vec3F{
		X: v.minX + (float64(col)+0.5-1)/v.sx,
		Z: v.maxZ - (float64(row)+0.5-1)/v.sz,
	}
}

// project returns the cell holding p, ok false when off screen
func (v *view) project(p vmath.Vec3F) (col, row int, ok bool) {
	if v.sx == 0 {
		return 0, 0, false
	}
	col = 1 + int(math.Floor((p.X-v.minX)*v.sx))
	row = 1 + int(math.Floor((v.maxZ-p.Z)*v.sz))
	return col, row, col >= 0 && col < v.cols && row >= 0 && row < v.rows
}

func (v *view) drawTrack(s tcell.Screen) {
	for i, c := range v.cells {
		var style tcell.Style
		switch c {
		case cellRoad:
			style = styleRoad
		case cellZipper:
			style = styleZipper
		case cellStart:
			style = styleStart
		default:
			continue
		}
		s.SetContent(i%v.cols, i/v.cols, ' ', nil, style)
	}
}

func (v *view) drawKart(s tcell.Screen, k *race.Kart, index int, player bool) {
	col, row, ok := v.project(k.Position())
	if !ok {
		return
	}
	style := styleRival
	if player {
		style = stylePlayer
	}
	if k.VisionObstructed() {
		style = style.Reverse(true)
	}
	_, bg, _ := v.styleAt(col, row).Decompose()
	s.SetContent(col, row, kartGlyph(index, player), nil, style.Background(bg))
}

func (v *view) styleAt(col, row int) tcell.Style {
	switch v.cells[row*v.cols+col] {
	case cellRoad:
		return styleRoad
	case cellZipper:
		return styleZipper
	case cellStart:
		return styleStart
	}
	return tcell.StyleDefault
}

func kartGlyph(index int, player bool) rune {
	if player {
		return '@'
	}
	if index < 9 {
		return rune('1' + index)
	}
	return '*'
}

func drawHUD(s tcell.Screen, r *race.Race, player *race.Kart, top, width int) {
	for i, line := range hudLines(r, player) {
		drawText(s, 0, top+i, width, line, styleHUD)
	}
}

// hudLines renders the status block under the track
func hudLines(r *race.Race, player *race.Kart) []string {
	status := fmt.Sprintf("%s  time %.1fs", r.Phase(), r.Time())
	switch r.Phase() {
	case race.PhaseCountdown:
		status = fmt.Sprintf("starting in %.1fs", r.Countdown())
	case race.PhaseFinished:
		status = fmt.Sprintf("race over at %.1fs, s restarts", r.Time())
	}

	pos := 0
	for i, k := range r.Standings() {
		if k == player {
			pos = i + 1
		}
	}
	lap := min(player.Lap()+1, r.Laps())
	kart := fmt.Sprintf("pos %d/%d  lap %d/%d  speed %5.1f/%5.1f  nitro %.1f  rescues %d",
		pos, len(r.Karts()), lap, r.Laps(), player.Speed(), player.MaxSpeed().CurrentMaxSpeed(),
		player.Nitro(), player.Rescues())

	return []string{
		status,
		kart,
		"arrows drive  space skid  n nitro  r rescue  o blind rivals  q quit",
	}
}

func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, ch := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, ch, nil, style)
		x++
	}
}
