// Package config loads the playground scene description from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"Playground3D/internal/physics"
	"Playground3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

const (
	DefaultWidth       = 1280
	DefaultHeight      = 720
	DefaultTitle       = "Playground3D"
	DefaultTimestep    = 1.0 / 60
	DefaultSensitivity = 5
	DefaultGroundY     = -5
	DefaultFOV         = 60
	DefaultNear        = 0.1
	DefaultFar         = 200
)

type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Camera     CameraConfig     `yaml:"camera"`
	Light      LightConfig      `yaml:"light"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Drag       DragConfig       `yaml:"drag"`
	Entities   []EntityConfig   `yaml:"entities"`
	Clouds     CloudsConfig     `yaml:"clouds"`
	Floor      FloorConfig      `yaml:"floor"`
	Background BackgroundConfig `yaml:"background"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type CameraConfig struct {
	Position mgl32.Vec3 `yaml:"position"`
	Target   mgl32.Vec3 `yaml:"target"`
	FOV      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
}

type LightConfig struct {
	Position  mgl32.Vec3 `yaml:"position"`
	Color     mgl32.Vec3 `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
	Ambient   float32    `yaml:"ambient"`
}

type PhysicsConfig struct {
	Timestep float32    `yaml:"timestep"`
	Gravity  mgl32.Vec3 `yaml:"gravity"`
	Ground   bool       `yaml:"ground"`
	GroundY  float32    `yaml:"ground_y"`
	Damping  float32    `yaml:"damping"`
}

type DragConfig struct {
	Sensitivity float32 `yaml:"sensitivity"`
}

type EntityConfig struct {
	Name        string        `yaml:"name"`
	Kind        string        `yaml:"kind"`
	Model       string        `yaml:"model"`
	Position    mgl32.Vec3    `yaml:"position"`
	Rotation    mgl32.Vec3    `yaml:"rotation"`
	Scale       mgl32.Vec3    `yaml:"scale"`
	Mass        float32       `yaml:"mass"`
	HalfExtents mgl32.Vec3    `yaml:"half_extents"`
	Jiggle      *JiggleConfig `yaml:"jiggle,omitempty"`
}

type JiggleConfig struct {
	Bones     []string `yaml:"bones"`
	Stiffness float32  `yaml:"stiffness"`
	Damping   float32  `yaml:"damping"`
}

// FloorConfig draws a grid plane at the physics ground height.
type FloorConfig struct {
	Visible bool       `yaml:"visible"`
	Size    int        `yaml:"size"`
	Spacing float32    `yaml:"spacing"`
	Color   mgl32.Vec3 `yaml:"color"`
}

// BackgroundConfig places a decorative backdrop model. An empty model path disables it.
type BackgroundConfig struct {
	Model    string     `yaml:"model"`
	Position mgl32.Vec3 `yaml:"position"`
	Rotation mgl32.Vec3 `yaml:"rotation"`
	Scale    mgl32.Vec3 `yaml:"scale"`
}

// CloudsConfig places PerModel copies of every cloud model between MinX and
// MaxX. Half of them drift with +Speed and half with -Speed.
type CloudsConfig struct {
	Models       []string `yaml:"models"`
	PerModel     int      `yaml:"per_model"`
	MinX         float32  `yaml:"min_x"`
	MaxX         float32  `yaml:"max_x"`
	MinHeight    float32  `yaml:"min_height"`
	MaxHeight    float32  `yaml:"max_height"`
	Depth        float32  `yaml:"depth"`
	Scale        float32  `yaml:"scale"`
	Speed        float32  `yaml:"speed"`
	BobAmplitude float32  `yaml:"bob_amplitude"`
	Seed         int64    `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
			VSync:  true,
		},
		Camera: CameraConfig{
			Position: mgl32.Vec3{0, 2, 30},
			Target:   mgl32.Vec3{0, 2, 12},
			FOV:      DefaultFOV,
			Near:     DefaultNear,
			Far:      DefaultFar,
		},
		Light: LightConfig{
			Position:  mgl32.Vec3{10, 10, 10},
			Color:     mgl32.Vec3{1, 1, 1},
			Intensity: 1,
			Ambient:   0.5,
		},
		Physics: PhysicsConfig{
			Timestep: DefaultTimestep,
			Gravity:  physics.StandardGravity,
			Ground:   true,
			GroundY:  DefaultGroundY,
			Damping:  0.01,
		},
		Drag: DragConfig{Sensitivity: DefaultSensitivity},
		Entities: []EntityConfig{
			{
				Name:        "player",
				Kind:        string(scene.KindPlayer),
				Model:       "models/demon.obj",
				Position:    mgl32.Vec3{0, 10, 15},
				Scale:       mgl32.Vec3{0.5, 0.5, 0.5},
				Mass:        1,
				HalfExtents: mgl32.Vec3{0.5, 1, 0.5},
				Jiggle:      &JiggleConfig{Bones: []string{"horn_l", "horn_r", "tail"}},
			},
			{
				Name:     "mace",
				Kind:     string(scene.KindWeapon),
				Model:    "models/mace.obj",
				Position: mgl32.Vec3{-5, 5, 12},
				Scale:    mgl32.Vec3{2, 2, 2},
				Mass:     6,
				Jiggle:   &JiggleConfig{Bones: []string{"chain", "ball"}},
			},
		},
		Floor: FloorConfig{
			Visible: true,
			Size:    21,
			Spacing: 3,
			Color:   mgl32.Vec3{0.35, 0.55, 0.3},
		},
		Background: BackgroundConfig{
			Model:    "models/castle.obj",
			Position: mgl32.Vec3{0, -5, -25},
			Rotation: mgl32.Vec3{0, -90, 0},
			Scale:    mgl32.Vec3{1, 1, 1},
		},
		Clouds: CloudsConfig{
			Models:       []string{"models/cloud.obj"},
			PerModel:     4,
			MinX:         -70,
			MaxX:         70,
			MinHeight:    12,
			MaxHeight:    18,
			Depth:        -10,
			Scale:        2,
			Speed:        1.2,
			BobAmplitude: 0.4,
			Seed:         7,
		},
	}
}

// Load reads path over DefaultConfig. Keys absent from the file keep their defaults;
// an entities list in the file replaces the default one.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem found, each wrapping ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if !(c.Physics.Timestep > 0) {
		invalid("physics timestep %v must be positive", c.Physics.Timestep)
	}
	if !(c.Drag.Sensitivity > 0) {
		invalid("drag sensitivity %v must be positive", c.Drag.Sensitivity)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		invalid("camera clip range %v..%v", c.Camera.Near, c.Camera.Far)
	}

	seen := make(map[string]bool, len(c.Entities))
	for i, e := range c.Entities {
		label := e.Name
		if label == "" {
			label = fmt.Sprintf("entities[%d]", i)
			invalid("%s has no name", label)
		} else if seen[e.Name] {
			invalid("duplicate entity %q", e.Name)
		}
		seen[e.Name] = true

		if e.Model == "" {
			invalid("%s has no model path", label)
		}
		if !scene.ValidMass(e.Mass) {
			invalid("%s mass %v must be positive and finite", label, e.Mass)
		}
		switch scene.Kind(e.Kind) {
		case "", scene.KindPlayer, scene.KindWeapon, scene.KindProp:
		default:
			invalid("%s has unknown kind %q", label, e.Kind)
		}
		if e.Jiggle != nil && len(e.Jiggle.Bones) == 0 {
			invalid("%s jiggle lists no bones", label)
		}
	}

	if c.Floor.Visible && (c.Floor.Size < 2 || !(c.Floor.Spacing > 0)) {
		invalid("floor grid %d x %v", c.Floor.Size, c.Floor.Spacing)
	}

	if len(c.Clouds.Models) > 0 {
		if c.Clouds.PerModel < 0 {
			invalid("clouds per_model %d", c.Clouds.PerModel)
		}
		if c.Clouds.MaxX <= c.Clouds.MinX {
			invalid("clouds range %v..%v", c.Clouds.MinX, c.Clouds.MaxX)
		}
		if c.Clouds.MaxHeight < c.Clouds.MinHeight {
			invalid("clouds height %v..%v", c.Clouds.MinHeight, c.Clouds.MaxHeight)
		}
	}

	return errors.Join(errs...)
}

// Spec converts the entity to what the scene needs to spawn it.
func (e EntityConfig) Spec() scene.EntitySpec {
	kind := scene.Kind(e.Kind)
	if kind == "" {
		kind = scene.KindProp
	}
	return scene.EntitySpec{
		Name:        e.Name,
		Kind:        kind,
		Position:    e.Position,
		Rotation:    e.Rotation,
		Scale:       e.Scale,
		Mass:        e.Mass,
		HalfExtents: e.HalfExtents,
	}
}

// NewWorld builds the physics world described by the physics section.
func (p PhysicsConfig) NewWorld() *physics.World {
	world := physics.NewWorld(p.Gravity)
	if p.Ground {
		world.SetGround(p.GroundY)
	}
	return world
}

// Summary writes a short human readable description of the scene.
func (c *Config) Summary(out io.Writer) {
	fmt.Fprintf(out, "window: %dx%d %q\n", c.Window.Width, c.Window.Height, c.Window.Title)
	fmt.Fprintf(out, "physics: dt=%.4f gravity=%v ground=%v\n", c.Physics.Timestep, c.Physics.Gravity, c.Physics.Ground)
	fmt.Fprintf(out, "drag sensitivity: %.2f\n", c.Drag.Sensitivity)
	fmt.Fprintf(out, "entities: %d\n", len(c.Entities))
	for _, e := range c.Entities {
		jiggle := "-"
		if e.Jiggle != nil {
			jiggle = fmt.Sprintf("%v", e.Jiggle.Bones)
		}
		fmt.Fprintf(out, "  %-10s %-7s mass=%-5.2f model=%s jiggle=%s\n", e.Name, e.Kind, e.Mass, e.Model, jiggle)
	}
	fmt.Fprintf(out, "clouds: %d models x %d\n", len(c.Clouds.Models), c.Clouds.PerModel)
	fmt.Fprintf(out, "floor: %v background: %q\n", c.Floor.Visible, c.Background.Model)
}
