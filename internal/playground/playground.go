// Package playground assembles the drag playground scene from a config.
package playground

import (
	"errors"
	"math/rand"

	"Playground3D/internal/behaviour"
	"Playground3D/internal/config"
	"Playground3D/internal/engine"
	"Playground3D/internal/interact"
	"Playground3D/internal/loader"
	"Playground3D/internal/logger"
	"Playground3D/internal/renderer"
	"Playground3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Playground is everything the window host needs besides the window.
type Playground struct {
	Loop   *engine.FrameLoop
	Clouds []*behaviour.CloudDrift
}

// New builds the scene and queues every configured asset on source.
func New(cfg *config.Config, source loader.Source) *Playground {
	camera := renderer.NewDefaultCamera(int32(cfg.Window.Width), int32(cfg.Window.Height))
	camera.Position = cfg.Camera.Position
	camera.Near, camera.Far = cfg.Camera.Near, cfg.Camera.Far
	camera.SetFov(cfg.Camera.FOV)
	camera.LookAt(cfg.Camera.Target)

	s := scene.New(camera, cfg.Physics.NewWorld())
	s.Light.Position = cfg.Light.Position
	s.Light.Color = cfg.Light.Color
	s.Light.Intensity = cfg.Light.Intensity
	s.Light.Ambient = cfg.Light.Ambient

	loop := engine.NewFrameLoop(s, nil, cfg.Physics.Timestep)
	loop.Drag = interact.NewDragController(s, cfg.Drag.Sensitivity)

	for _, e := range cfg.Entities {
		loop.Await(source.Load(e.Model), spawnEntity(loop, e, cfg.Physics.Damping))
	}

	p := &Playground{Loop: loop}
	p.addFloor(cfg.Floor, cfg.Physics)
	p.addBackground(cfg.Background, source)
	p.addClouds(cfg.Clouds, source)
	return p
}

// Teardown hands every model of the scene to remove and stops all
// animators. The playground must not be ticked afterwards.
func (p *Playground) Teardown(remove func(*renderer.Model)) {
	s := p.Loop.Scene
	s.OnModelAdded = nil
	if remove != nil {
		s.Registry.ForEach(func(e *scene.Entry) {
			remove(e.Model)
		})
		for _, m := range s.Decorations {
			remove(m)
		}
	}
	p.Loop.Animators.Clear()
}

// Rebuild tears p down and builds a fresh playground from cfg.
func (p *Playground) Rebuild(cfg *config.Config, source loader.Source, remove func(*renderer.Model)) *Playground {
	p.Teardown(remove)
	logger.Log.Info("Scene reset")
	return New(cfg, source)
}

// addFloor draws a grid at the ground height. It goes through the loop like
// any other asset so it reaches the renderer on the render thread.
func (p *Playground) addFloor(cfg config.FloorConfig, phys config.PhysicsConfig) {
	if !cfg.Visible {
		return
	}
	plane, err := loader.LoadPlane(cfg.Size, cfg.Spacing)
	if plane != nil {
		plane.Name = "floor"
		plane.SetDiffuseColor(cfg.Color.X(), cfg.Color.Y(), cfg.Color.Z())
		plane.SetPosition(0, phys.GroundY, 0)
	}
	p.Loop.Await(loader.Resolved("floor", plane, err), func(model *renderer.Model) error {
		p.Loop.Scene.AddDecoration(model)
		return nil
	})
}

func (p *Playground) addBackground(cfg config.BackgroundConfig, source loader.Source) {
	if cfg.Model == "" {
		return
	}
	p.Loop.Await(source.Load(cfg.Model), func(model *renderer.Model) error {
		model.Name = "background"
		scale := cfg.Scale
		if scale == (mgl32.Vec3{}) {
			scale = mgl32.Vec3{1, 1, 1}
		}
		model.SetScaleVec(scale)
		model.SetRotationQuat(mgl32.QuatIdent())
		model.Rotate(cfg.Rotation.X(), cfg.Rotation.Y(), cfg.Rotation.Z())
		model.SetPositionVec(cfg.Position)
		p.Loop.Scene.AddDecoration(model)
		return nil
	})
}

func spawnEntity(loop *engine.FrameLoop, e config.EntityConfig, damping float32) func(*renderer.Model) error {
	return func(model *renderer.Model) error {
		entry, err := loop.Scene.Spawn(e.Spec(), model)
		if err != nil {
			return err
		}
		entry.Body.LinearDamping = damping
		entry.Body.AngularDamping = damping
		logger.Log.Info("Entity spawned",
			zap.String("name", entry.Name),
			zap.String("kind", string(entry.Kind)),
			zap.Float32("mass", entry.Mass))

		if e.Jiggle == nil {
			return nil
		}
		jiggle, err := behaviour.NewJiggle(model, e.Jiggle.Bones, e.Jiggle.Stiffness, e.Jiggle.Damping)
		if errors.Is(err, loader.ErrMissingSkeleton) {
			logger.Log.Warn("Skipping jiggle", zap.String("name", entry.Name), zap.Error(err))
			return nil
		}
		if err != nil {
			return err
		}
		loop.Animators.Add(jiggle)
		return nil
	}
}

// addClouds scatters copies of every cloud model. Copies alternate between
// drifting right and drifting left.
func (p *Playground) addClouds(cfg config.CloudsConfig, source loader.Source) {
	if len(cfg.Models) == 0 || cfg.PerModel <= 0 {
		return
	}
	rightward := behaviour.NewCloudDrift(nil, cfg.Speed, cfg.MinX, cfg.MaxX, cfg.BobAmplitude, cfg.Seed)
	leftward := behaviour.NewCloudDrift(nil, -cfg.Speed, cfg.MinX, cfg.MaxX, cfg.BobAmplitude, cfg.Seed+1)
	p.Clouds = []*behaviour.CloudDrift{rightward, leftward}
	p.Loop.Animators.Add(rightward)
	p.Loop.Animators.Add(leftward)

	rng := rand.New(rand.NewSource(cfg.Seed))
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}

	for modelIndex, path := range cfg.Models {
		modelIndex := modelIndex
		p.Loop.Await(source.Load(path), func(model *renderer.Model) error {
			for i := 0; i < cfg.PerModel; i++ {
				cloud := model
				if i > 0 {
					cloud = model.Clone()
				}
				cloud.SetScale(scale, scale, scale)
				cloud.SetRotationQuat(mgl32.QuatIdent())
				cloud.Rotate(0, -90, 0)
				x := cfg.MinX + rng.Float32()*(cfg.MaxX-cfg.MinX)
				y := cfg.MinHeight + rng.Float32()*(cfg.MaxHeight-cfg.MinHeight)
				cloud.SetPosition(x, y, cfg.Depth)

				p.Loop.Scene.AddDecoration(cloud)
				drift := rightward
				if (i+modelIndex)%2 != 0 {
					drift = leftward
				}
				drift.Clouds = append(drift.Clouds, cloud)
			}
			return nil
		})
	}
}
