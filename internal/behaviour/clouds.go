package behaviour

import (
	"Playground3D/internal/renderer"

	perlin "github.com/aquilax/go-perlin"
)

// CloudDrift slides cloud models along +X, wrapping between MinX and MaxX,
// and bobs them vertically with Perlin noise.
type CloudDrift struct {
	Clouds       []*renderer.Model
	Speed        float32 // Units per second
	MinX, MaxX   float32
	BobAmplitude float32
	BobFrequency float32

	noise   *perlin.Perlin
	base    []float32
	elapsed float64
}

func NewCloudDrift(clouds []*renderer.Model, speed, minX, maxX, bobAmplitude float32, seed int64) *CloudDrift {
	return &CloudDrift{
		Clouds:       clouds,
		Speed:        speed,
		MinX:         minX,
		MaxX:         maxX,
		BobAmplitude: bobAmplitude,
		BobFrequency: 0.1,
		noise:        perlin.NewPerlin(2, 2, 3, seed),
	}
}

func (c *CloudDrift) Start() {
	c.base = make([]float32, len(c.Clouds))
	for i, cloud := range c.Clouds {
		c.base[i] = cloud.Y()
	}
}

func (c *CloudDrift) Update(dt float32) {
	c.elapsed += float64(dt)
	span := c.MaxX - c.MinX

	for i, cloud := range c.Clouds {
		if i >= len(c.base) {
			// Added after Start.
			c.base = append(c.base, cloud.Y())
		}
		x := cloud.X() + c.Speed*dt
		if span > 0 {
			for x > c.MaxX {
				x -= span
			}
			for x < c.MinX {
				x += span
			}
		}
		bob := float32(c.noise.Noise2D(c.elapsed*float64(c.BobFrequency), float64(i)*7.3))
		cloud.SetPosition(x, c.base[i]+bob*c.BobAmplitude, cloud.Z())
	}
}
