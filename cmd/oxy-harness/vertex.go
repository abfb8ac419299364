package main

import (
	"github.com/Carmen-Shannon/oxy-harness/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// vertex is shared by every mesh in the demo: clip-space position, tint and texture coordinate.
type vertex struct {
	Pos   [2]float32
	Color [4]float32
	UV    [2]float32
}

func (vertex) Layout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: common.SizeOf[vertex](),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}

var white = [4]float32{1, 1, 1, 1}

// pentagon returns the textured pentagon, UVs mapped so the image fills its bounding box.
func pentagon() ([]vertex, []uint16) {
	verts := []vertex{
		{Pos: [2]float32{-0.0868241, 0.49240386}, Color: white, UV: [2]float32{0.4131759, 0.00759614}},
		{Pos: [2]float32{-0.49513406, 0.06958647}, Color: white, UV: [2]float32{0.0048659444, 0.43041354}},
		{Pos: [2]float32{-0.21918549, -0.44939706}, Color: white, UV: [2]float32{0.28081453, 0.949397}},
		{Pos: [2]float32{0.35966998, -0.3473291}, Color: white, UV: [2]float32{0.85967, 0.84732914}},
		{Pos: [2]float32{0.44147372, 0.2347359}, Color: white, UV: [2]float32{0.9414737, 0.2652641}},
	}
	return verts, []uint16{0, 1, 4, 1, 2, 4, 2, 3, 4}
}

// checkerboard builds an RGBA8 image of size x size pixels with square cells alternating a and b.
func checkerboard(size, cell uint32, a, b [4]byte) common.TextureStagingData {
	cell = max(cell, 1)
	pixels := make([]byte, 0, size*size*4)
	for y := range size {
		for x := range size {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			pixels = append(pixels, c[:]...)
		}
	}
	return common.TextureStagingData{Pixels: pixels, Width: size, Height: size}
}
