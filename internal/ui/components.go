package ui

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/olivier-w/lumen/internal/engine"
	"github.com/olivier-w/lumen/internal/util"
)

const (
	graphHeight = 5
	// asciigraph draws graphHeight+1 rows plus the caption line
	graphLines = graphHeight + 2
)

// renderGraph plots the dominant-shape weight and the normalized kinetic
// energy. It always returns graphLines lines.
func renderGraph(weights, energy []float64, width int) string {
	if len(weights) < 2 || len(energy) < 2 {
		return strings.Repeat("\n", graphLines-1)
	}
	plot := asciigraph.PlotMany(
		[][]float64{weights, normalize(energy)},
		asciigraph.Height(graphHeight),
		asciigraph.Width(max(width-12, 10)),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Goldenrod),
		asciigraph.Caption("blend weight · kinetic energy"),
	)
	lines := strings.Split(plot, "\n")
	for len(lines) < graphLines {
		lines = append(lines, "")
	}
	return strings.Join(lines[:graphLines], "\n")
}

// normalize scales values into [0,1] by their maximum.
func normalize(values []float64) []float64 {
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	out := make([]float64, len(values))
	if peak == 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / peak
	}
	return out
}

func renderStats(st engine.Stats) string {
	return fmt.Sprintf("%s particles  %s %3.0f%%  turb %.2f  shock %.2f  energy %s  %s  %s",
		util.FormatCount(st.Particles),
		st.Shape, st.Weight*100,
		st.Turbulence, st.Shockwave,
		util.FormatEnergy(st.Energy),
		util.FormatRate(st.Frames, st.Elapsed),
		util.FormatDuration(st.Elapsed))
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " · lumen"
	}
	return "▶ " + title + " · lumen"
}
