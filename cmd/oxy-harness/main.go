// Command oxy-harness opens a window and draws a textured pentagon, an animated wave strip and a
// ring of markers with the fixed-step frame loop.
//
// Keys: P pauses the animation, R rewinds it, Space toggles the markers, Escape quits.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-harness/engine"
	"github.com/Carmen-Shannon/oxy-harness/engine/clock"
	"github.com/Carmen-Shannon/oxy-harness/engine/config"
	"github.com/Carmen-Shannon/oxy-harness/engine/jobs"
	"github.com/Carmen-Shannon/oxy-harness/engine/renderer"
	"github.com/Carmen-Shannon/oxy-harness/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (defaults are used when empty)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("oxy-harness: exiting", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	level, _ := cfg.Log.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithResizable(cfg.Window.Resizable),
		window.WithHighDPI(cfg.Window.HighDPI),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := win.Close(); err != nil {
			slog.Warn("oxy-harness: close window", "error", err)
		}
	}()

	r, err := renderer.NewRenderer(win, rendererOptions(cfg.Renderer)...)
	if err != nil {
		return err
	}
	defer r.Release()

	d, err := newDemo(r, jobs.NewPool())
	if err != nil {
		return err
	}
	defer d.Release()

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithClockOptions(
			clock.WithTargetRate(cfg.Clock.TargetRate),
			clock.WithMaxSteps(cfg.Clock.MaxSteps),
		),
		engine.WithUnfocusedPollInterval(cfg.Clock.UnfocusedPollInterval()),
		engine.WithProfiling(cfg.Profiling),
		engine.WithUpdateCallback(d.update),
		engine.WithRenderCallback(d.render),
		engine.WithEventCallback(d.handleEvent),
	)
	return eng.Run()
}

// rendererOptions maps the [renderer] table onto renderer options and registers the demo pipelines.
func rendererOptions(cfg config.RendererConfig) []renderer.RendererBuilderOption {
	mode := renderer.PresentModeVSync
	if cfg.Uncapped() {
		mode = renderer.PresentModeUncapped
	}
	opts := []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.MSAA)),
		renderer.WithClearColor(wgpu.Color{
			R: cfg.ClearColor[0],
			G: cfg.ClearColor[1],
			B: cfg.ClearColor[2],
			A: cfg.ClearColor[3],
		}),
		renderer.WithForceSoftwareRenderer(cfg.ForceSoftware),
	}
	for _, p := range demoPipelines() {
		opts = append(opts, renderer.WithPipeline(p))
	}
	return opts
}
