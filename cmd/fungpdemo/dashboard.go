package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// dashboard renders one line per migration round: a fitness-colored
// bar (green at zero error, red at the worst error seen so far) plus
// the numeric value.
type dashboard struct {
	screen tcell.Screen
	worst  float64
	rounds []float64
}

func newDashboard(screen tcell.Screen) *dashboard {
	return &dashboard{screen: screen}
}

var (
	good = colorful.Color{R: 0.15, G: 0.8, B: 0.15}
	bad  = colorful.Color{R: 0.85, G: 0.15, B: 0.15}
)

func (d *dashboard) record(round int, fitness float64) {
	if fitness > d.worst {
		d.worst = fitness
	}
	d.rounds = append(d.rounds, fitness)
	d.redraw()
}

func (d *dashboard) redraw() {
	d.screen.Clear()
	w, h := d.screen.Size()
	drawText(d.screen, 0, 0, tcell.StyleDefault.Bold(true), "fungp symbolic regression")
	drawText(d.screen, 0, 1, tcell.StyleDefault, "round   fitness   bar")

	start := 0
	if len(d.rounds) > h-3 {
		start = len(d.rounds) - (h - 3)
	}
	for row, i := start, 0; row < len(d.rounds); row, i = row+1, i+1 {
		fitness := d.rounds[row]
		t := 0.0
		if d.worst > 0 {
			t = fitness / d.worst
		}
		c := good.BlendHsv(bad, clamp01(t))
		r8, g8, b8 := c.RGB255()
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r8), int32(g8), int32(b8)))

		label := fmt.Sprintf("%5d   %8.4f   ", row+1, fitness)
		drawText(d.screen, 0, 2+i, tcell.StyleDefault, label)

		barLen := int(float64(w-len(label)) * (1 - clamp01(t)))
		bar := make([]rune, barLen)
		for k := range bar {
			bar[k] = '█'
		}
		drawText(d.screen, len(label), 2+i, style, string(bar))
	}
	d.screen.Show()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
