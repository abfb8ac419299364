package main

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-harness/common"
	"github.com/Carmen-Shannon/oxy-harness/engine/jobs"
	"github.com/Carmen-Shannon/oxy-harness/engine/mesh"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-harness/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	texturedPipelineKey = "textured"
	coloredPipelineKey  = "colored"

	// wave columns per job
	waveChunk = 16
)

var (
	//go:embed shaders/textured.wgsl
	texturedShader string

	//go:embed shaders/colored.wgsl
	coloredShader string
)

// demoPipelines returns the pipelines the demo draws with, for registration through renderer.WithPipeline.
func demoPipelines() []pipeline.Pipeline {
	layout := mesh.VertexLayout[vertex]()
	return []pipeline.Pipeline{
		pipeline.NewPipeline(texturedPipelineKey, texturedShader,
			pipeline.WithVertexLayouts(layout),
			pipeline.WithBindGroupLayouts(pipeline.SampledTextureLayout("Checker Layout")),
			pipeline.WithCullMode(wgpu.CullModeNone),
		),
		pipeline.NewPipeline(coloredPipelineKey, coloredShader,
			pipeline.WithVertexLayouts(layout),
			pipeline.WithCullMode(wgpu.CullModeNone),
		),
	}
}

// demo owns the meshes and image drawn each frame.
//
// The pentagon is uploaded once. The wave mirror is rebuilt on the job pool every update and
// re-uploaded whole each frame. The markers share one small buffer: each marker is appended and
// drawn before the next is appended.
type demo struct {
	pool *jobs.Pool

	textured pipeline.Pipeline
	colored  pipeline.Pipeline

	checker  renderer.Image
	pentagon *mesh.StaticMesh[vertex, uint16]
	wave     *mesh.DynamicMesh[vertex, uint32]
	markers  *mesh.DynamicMesh[vertex, uint16]

	elapsed     float32
	paused      bool
	showMarkers bool
}

func newDemo(r renderer.Renderer, pool *jobs.Pool) (*demo, error) {
	d := &demo{pool: pool, showMarkers: true}
	if err := d.init(r); err != nil {
		d.Release()
		return nil, err
	}
	return d, nil
}

func (d *demo) init(r renderer.Renderer) error {
	if d.textured = r.Pipeline(texturedPipelineKey); d.textured == nil {
		return fmt.Errorf("demo: pipeline %q not registered", texturedPipelineKey)
	}
	if d.colored = r.Pipeline(coloredPipelineKey); d.colored == nil {
		return fmt.Errorf("demo: pipeline %q not registered", coloredPipelineKey)
	}

	dev := r.Device()

	var err error
	d.checker, err = dev.CreateImage("Checker",
		checkerboard(256, 32, [4]byte{235, 235, 235, 255}, [4]byte{40, 90, 160, 255}),
		common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeRepeat,
			AddressModeV: wgpu.AddressModeRepeat,
		},
	)
	if err != nil {
		return fmt.Errorf("demo: checker image: %w", err)
	}

	verts, indices := pentagon()
	d.pentagon, err = mesh.NewStaticMesh(dev, verts, indices, mesh.WithLabel("Pentagon"))
	if err != nil {
		return fmt.Errorf("demo: pentagon: %w", err)
	}
	d.pentagon.BindImage(0, d.checker)

	waveVerts := make([]vertex, 2*waveColumns)
	fillWave(waveVerts, waveColumns, 0, waveColumns, 0)
	d.wave, err = mesh.NewDynamicMesh(dev, waveVerts, waveIndices(waveColumns), mesh.WithLabel("Wave"))
	if err != nil {
		return fmt.Errorf("demo: wave: %w", err)
	}

	d.markers, err = mesh.NewDynamicMesh(dev, make([]vertex, 4*markerCount), []uint16{0, 1, 2, 0, 2, 3},
		mesh.WithLabel("Markers"),
	)
	if err != nil {
		return fmt.Errorf("demo: markers: %w", err)
	}
	return nil
}

// update advances the animation and rebuilds the wave mirror.
func (d *demo) update(dt time.Duration) error {
	if d.paused {
		return nil
	}
	d.elapsed += float32(dt.Seconds())

	t := d.elapsed
	d.pool.ForEach(waveColumns, waveChunk, func(start, end int) {
		fillWave(d.wave.Vertices, waveColumns, start, end, t)
	})
	return nil
}

// render uploads this frame's dynamic data and records every draw.
func (d *demo) render(pass renderer.RenderPass) error {
	pass.SetPipeline(d.textured)
	d.pentagon.DrawAll(pass)

	pass.SetPipeline(d.colored)
	if err := d.wave.UploadAll(); err != nil {
		return fmt.Errorf("demo: upload wave: %w", err)
	}
	d.wave.DrawAll(pass)

	if !d.showMarkers {
		return nil
	}
	for k := range markerCount {
		markerQuad(d.markers.Vertices[4*k:4*k+4], k, d.elapsed)
		if _, err := d.markers.AppendSlice(4*k, 4); err != nil {
			if errors.Is(err, mesh.ErrAppendOverflow) {
				slog.Debug("demo: marker buffer full", "drawn", k)
				break
			}
			return fmt.Errorf("demo: append marker %d: %w", k, err)
		}
		d.markers.DrawAll(pass)
	}
	return nil
}

// handleEvent maps the demo keys: P pauses, R rewinds, Space toggles the markers.
func (d *demo) handleEvent(ev window.Event) {
	if ev.Type != window.EventKeyDown {
		return
	}
	switch ev.Key {
	case common.KeyP:
		d.paused = !d.paused
		slog.Info("demo: pause toggled", "paused", d.paused)
	case common.KeyR:
		d.elapsed = 0
	case common.KeySpace:
		d.showMarkers = !d.showMarkers
	}
}

// Release frees the meshes before the image they borrow.
func (d *demo) Release() {
	if d.markers != nil {
		d.markers.Release()
	}
	if d.wave != nil {
		d.wave.Release()
	}
	if d.pentagon != nil {
		d.pentagon.Release()
	}
	if d.checker != nil {
		d.checker.Release()
		d.checker = nil
	}
}
