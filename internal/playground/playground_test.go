package playground

import (
	"errors"
	"testing"
	"time"

	"Playground3D/internal/config"
	"Playground3D/internal/loader"
	"Playground3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource resolves loads from memory. Paths it does not know fail.
type fakeSource map[string]func() *renderer.Model

func (f fakeSource) Load(path string) <-chan loader.Result {
	build, ok := f[path]
	if !ok {
		return loader.Resolved(path, nil, errors.New("not found"))
	}
	return loader.Resolved(path, build(), nil)
}

func cube() *renderer.Model {
	return loader.LoadCube(mgl32.Vec3{0.5, 0.5, 0.5})
}

func riggedCube() *renderer.Model {
	m := cube()
	m.Skeleton = &renderer.Skeleton{Bones: []renderer.Bone{
		{Name: "body", Parent: -1},
		{Name: "chain", Parent: 0, Offset: mgl32.Vec3{0, 1, 0}},
		{Name: "ball", Parent: 1, Offset: mgl32.Vec3{0, 1, 0}},
	}}
	return m
}

func TestPlaygroundSpawnsConfiguredEntities(t *testing.T) {
	cfg := config.DefaultConfig()
	source := fakeSource{
		"models/demon.obj": cube,       // no rig: jiggle skipped
		"models/mace.obj":  riggedCube, // rig: jiggle added
		"models/cloud.obj": cube,
	}

	p := New(cfg, source)
	p.Loop.Tick()

	registry := p.Loop.Scene.Registry
	require.Equal(t, 2, registry.Len())
	player := registry.Find("player")
	require.NotNil(t, player)
	assert.Equal(t, float32(1), player.Mass)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, player.Model.Scale)
	assert.Equal(t, float32(6), registry.Find("mace").Body.Mass)

	// two cloud drifts plus one jiggle
	assert.Equal(t, 3, p.Loop.Animators.Len())
	assert.Equal(t, float32(5), p.Loop.Drag.Sensitivity())
}

func TestPlaygroundClouds(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Entities = nil
	cfg.Floor.Visible = false
	cfg.Background.Model = ""
	cfg.Clouds.Models = []string{"a.obj", "b.obj"}
	cfg.Clouds.PerModel = 3
	source := fakeSource{"a.obj": cube, "b.obj": cube}

	p := New(cfg, source)
	p.Loop.Tick()

	require.Len(t, p.Loop.Scene.Decorations, 6)
	require.Len(t, p.Clouds, 2)
	assert.Equal(t, 6, len(p.Clouds[0].Clouds)+len(p.Clouds[1].Clouds))
	for _, cloud := range p.Loop.Scene.Decorations {
		assert.Equal(t, cfg.Clouds.Depth, cloud.Z())
		assert.GreaterOrEqual(t, cloud.X(), cfg.Clouds.MinX)
		assert.LessOrEqual(t, cloud.X(), cfg.Clouds.MaxX)
	}
	assert.Equal(t, 0, p.Loop.Scene.Registry.Len(), "clouds have no physics")
}

func TestPlaygroundSurvivesMissingAssets(t *testing.T) {
	cfg := config.DefaultConfig()
	source := fakeSource{"models/mace.obj": cube}

	p := New(cfg, source)
	p.Loop.Tick()
	p.Loop.Tick()

	assert.Equal(t, 1, p.Loop.Scene.Registry.Len())
	// the floor is built in process, the background and clouds are missing
	require.Len(t, p.Loop.Scene.Decorations, 1)
	assert.Equal(t, "floor", p.Loop.Scene.Decorations[0].Name)
	assert.Equal(t, uint64(2), p.Loop.Frames())
}

func TestPlaygroundLoadsShippedScene(t *testing.T) {
	cfg, err := config.Load("../../assets/scene.yaml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	source := loader.NewFileSource("../../assets")
	defer source.Close()
	p := New(cfg, source)
	deadline := time.Now().Add(5 * time.Second)
	for p.Loop.Pending() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("%d loads still pending", p.Loop.Pending())
		}
		p.Loop.Tick()
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, 3, p.Loop.Scene.Registry.Len())
	// floor, castle and four clouds
	assert.Len(t, p.Loop.Scene.Decorations, 6)
	// two cloud drifts, jiggle on the player and the mace
	assert.Equal(t, 4, p.Loop.Animators.Len())

	player := p.Loop.Scene.Registry.Find("player")
	require.NotNil(t, player)
	require.NotNil(t, player.Model.Skeleton)
	assert.Equal(t, "player", player.Model.Name)
}

func findDecoration(p *Playground, name string) *renderer.Model {
	for _, m := range p.Loop.Scene.Decorations {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func TestPlaygroundFloorSitsAtGroundHeight(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Entities = nil
	cfg.Clouds.Models = nil
	cfg.Physics.GroundY = -3
	cfg.Floor.Color = mgl32.Vec3{0.1, 0.2, 0.3}

	p := New(cfg, fakeSource{})
	p.Loop.Tick()

	floor := findDecoration(p, "floor")
	require.NotNil(t, floor)
	assert.Equal(t, float32(-3), floor.Y())
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, floor.Material.DiffuseColor)
	assert.Equal(t, 0, p.Loop.Scene.Registry.Len(), "the floor has no body")

	cfg.Floor.Visible = false
	p = New(cfg, fakeSource{})
	p.Loop.Tick()
	assert.Nil(t, findDecoration(p, "floor"))
}

func TestPlaygroundBackground(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Entities = nil
	cfg.Clouds.Models = nil
	cfg.Floor.Visible = false
	cfg.Background = config.BackgroundConfig{
		Model:    "castle.obj",
		Position: mgl32.Vec3{1, -5, -25},
		Rotation: mgl32.Vec3{0, 90, 0},
		Scale:    mgl32.Vec3{2, 2, 2},
	}

	p := New(cfg, fakeSource{"castle.obj": cube})
	p.Loop.Tick()

	require.Len(t, p.Loop.Scene.Decorations, 1)
	bg := p.Loop.Scene.Decorations[0]
	assert.Equal(t, "background", bg.Name)
	assert.Equal(t, mgl32.Vec3{1, -5, -25}, bg.Position)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, bg.Scale)
	turned := bg.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, -1, turned.Z(), 1e-5)
}

func TestPlaygroundRebuildReleasesOldScene(t *testing.T) {
	cfg := config.DefaultConfig()
	source := fakeSource{
		"models/demon.obj":  cube,
		"models/mace.obj":   riggedCube,
		"models/cloud.obj":  cube,
		"models/castle.obj": cube,
	}
	p := New(cfg, source)
	var uploaded []*renderer.Model
	p.Loop.Scene.OnModelAdded = func(m *renderer.Model) { uploaded = append(uploaded, m) }
	p.Loop.Tick()
	require.NotEmpty(t, uploaded)
	animators := p.Loop.Animators.Len()
	require.Greater(t, animators, 0)

	released := map[*renderer.Model]bool{}
	fresh := p.Rebuild(cfg, source, func(m *renderer.Model) { released[m] = true })

	for _, m := range uploaded {
		assert.True(t, released[m], "model %q not released", m.Name)
	}
	assert.Len(t, released, len(uploaded))
	assert.Equal(t, 0, p.Loop.Animators.Len())
	assert.Nil(t, p.Loop.Scene.OnModelAdded)

	require.NotSame(t, p.Loop, fresh.Loop)
	fresh.Loop.Tick()
	assert.Equal(t, p.Loop.Scene.Registry.Len(), fresh.Loop.Scene.Registry.Len())
	assert.Equal(t, animators, fresh.Loop.Animators.Len())
	assert.Equal(t, len(p.Loop.Scene.Decorations), len(fresh.Loop.Scene.Decorations))
}
