package engine

import (
	"Playground3D/internal/behaviour"
	"Playground3D/internal/config"
	"Playground3D/internal/interact"
	"Playground3D/internal/loader"
	"Playground3D/internal/logger"
	"Playground3D/internal/renderer"
	"Playground3D/internal/scene"

	"go.uber.org/zap"
)

// DefaultTimestep is the physics step used when none is configured.
const DefaultTimestep = 1.0 / 60

// Renderer is the part of the render backend the loop drives every frame.
type Renderer interface {
	Render(camera renderer.Camera, light *renderer.Light)
}

type pendingLoad struct {
	ch    <-chan loader.Result
	spawn func(*renderer.Model) error
}

// FrameLoop advances one frame per Tick: integrate finished loads and config
// reloads, step physics, sync models to bodies, animate, render.
type FrameLoop struct {
	Scene     *scene.Scene
	Animators *behaviour.Manager
	Renderer  Renderer
	Drag      *interact.DragController
	FixedDt   float32

	pending []pendingLoad
	reloads <-chan *config.Config
	frames  uint64
}

func NewFrameLoop(s *scene.Scene, r Renderer, fixedDt float32) *FrameLoop {
	if !(fixedDt > 0) {
		fixedDt = DefaultTimestep
	}
	return &FrameLoop{
		Scene:     s,
		Animators: behaviour.NewManager(),
		Renderer:  r,
		FixedDt:   fixedDt,
	}
}

// Await parks an asynchronous load. Once it completes successfully spawn
// runs on the loop's thread during a later Tick.
func (f *FrameLoop) Await(load <-chan loader.Result, spawn func(*renderer.Model) error) {
	f.pending = append(f.pending, pendingLoad{ch: load, spawn: spawn})
}

// Pending is the number of loads not yet integrated.
func (f *FrameLoop) Pending() int {
	return len(f.pending)
}

// WatchConfig makes each Tick apply the newest config received on ch.
func (f *FrameLoop) WatchConfig(ch <-chan *config.Config) {
	f.reloads = ch
}

// Frames is the number of completed ticks.
func (f *FrameLoop) Frames() uint64 {
	return f.frames
}

func (f *FrameLoop) Tick() {
	f.integrateLoads()
	f.applyReloads()

	f.Scene.World.Step(f.FixedDt)
	f.Scene.Registry.Sync()
	if f.Animators != nil {
		f.Animators.UpdateAll(f.FixedDt)
	}
	if f.Renderer != nil {
		f.Renderer.Render(*f.Scene.Camera, f.Scene.Light)
	}
	f.frames++
}

// integrateLoads polls every parked load once. Spawns may Await further
// loads; those are polled from the next tick on.
func (f *FrameLoop) integrateLoads() {
	polled := f.pending
	f.pending = nil

	var remaining []pendingLoad
	for _, p := range polled {
		select {
		case res, ok := <-p.ch:
			if !ok {
				logger.Log.Warn("Asset load closed without a result")
				continue
			}
			f.integrate(res, p.spawn)
		default:
			remaining = append(remaining, p)
		}
	}
	f.pending = append(remaining, f.pending...)
}

func (f *FrameLoop) integrate(res loader.Result, spawn func(*renderer.Model) error) {
	if res.Err != nil {
		logger.Log.Warn("Skipping asset", zap.String("path", res.Path), zap.Error(res.Err))
		return
	}
	if spawn == nil {
		return
	}
	if err := spawn(res.Model); err != nil {
		logger.Log.Error("Could not add asset to the scene", zap.String("path", res.Path), zap.Error(err))
		return
	}
	logger.Log.Debug("Asset integrated", zap.String("path", res.Path))
}

func (f *FrameLoop) applyReloads() {
	if f.reloads == nil {
		return
	}
	var latest *config.Config
	for {
		select {
		case cfg, ok := <-f.reloads:
			if !ok {
				f.reloads = nil
				f.apply(latest)
				return
			}
			latest = cfg
		default:
			f.apply(latest)
			return
		}
	}
}

// apply copies the tunables that are safe to change while running.
func (f *FrameLoop) apply(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if f.Drag != nil {
		f.Drag.SetSensitivity(cfg.Drag.Sensitivity)
	}
	f.Scene.World.Gravity = cfg.Physics.Gravity
	logger.Log.Info("Scene config reloaded",
		zap.Float32("sensitivity", cfg.Drag.Sensitivity),
		zap.Float32("gravity", cfg.Physics.Gravity.Y()))
}
