package main

import (
	"github.com/chewxy/math32"
)

const (
	waveColumns   = 96
	waveBaseline  = -0.65
	waveAmplitude = 0.12
	waveThickness = 0.18
	waveFrequency = 5
	waveSpeed     = 2.5
)

// waveIndices returns a triangle list for a strip of columns, two vertices per column (top, bottom).
func waveIndices(columns int) []uint32 {
	if columns < 2 {
		return nil
	}
	indices := make([]uint32, 0, (columns-1)*6)
	for i := range columns - 1 {
		top, bottom := uint32(2*i), uint32(2*i+1)
		nextTop, nextBottom := top+2, bottom+2
		indices = append(indices, top, bottom, nextTop, nextTop, bottom, nextBottom)
	}
	return indices
}

// fillWave writes the strip vertices for columns [start, end) at time t.
// Ranges touch disjoint vertices so they can be filled concurrently.
func fillWave(verts []vertex, columns, start, end int, t float32) {
	for i := start; i < end; i++ {
		x := -1 + 2*float32(i)/float32(columns-1)
		y := waveBaseline + waveAmplitude*math32.Sin(x*waveFrequency+t*waveSpeed)

		hue := x*math32.Pi + t
		color := [4]float32{
			0.5 + 0.5*math32.Cos(hue),
			0.5 + 0.5*math32.Cos(hue-2*math32.Pi/3),
			0.5 + 0.5*math32.Cos(hue+2*math32.Pi/3),
			1,
		}

		verts[2*i] = vertex{Pos: [2]float32{x, y}, Color: color}
		verts[2*i+1] = vertex{Pos: [2]float32{x, y - waveThickness}, Color: color}
	}
}

const (
	markerCount  = 5
	markerRadius = 0.62
	markerSize   = 0.035
)

// markerQuad writes the four corners of marker k at time t into dst.
func markerQuad(dst []vertex, k int, t float32) {
	angle := t + float32(k)*2*math32.Pi/markerCount
	s, c := math32.Sincos(angle)
	cx, cy := markerRadius*c, markerRadius*s+0.05

	color := [4]float32{1, 0.85, 0.2, 1}
	dst[0] = vertex{Pos: [2]float32{cx - markerSize, cy - markerSize}, Color: color}
	dst[1] = vertex{Pos: [2]float32{cx + markerSize, cy - markerSize}, Color: color}
	dst[2] = vertex{Pos: [2]float32{cx + markerSize, cy + markerSize}, Color: color}
	dst[3] = vertex{Pos: [2]float32{cx - markerSize, cy + markerSize}, Color: color}
}
