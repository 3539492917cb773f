// camera.go
package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Camera struct {
	// HOT DATA - Accessed every frame for view/projection calculations
	Position   mgl32.Vec3 // Camera position in world space
	Front      mgl32.Vec3 // Forward direction vector
	Up         mgl32.Vec3 // Up direction vector
	Right      mgl32.Vec3 // Right direction vector
	Projection mgl32.Mat4 // Projection matrix
	Pitch      float32    // Pitch angle in degrees
	Yaw        float32    // Yaw angle in degrees

	// COLD DATA - Configuration
	WorldUp     mgl32.Vec3 // World up vector (usually (0,1,0))
	Fov         float32    // Vertical field of view in degrees
	Near        float32    // Near clipping plane
	Far         float32    // Far clipping plane
	AspectRatio float32    // Width over height
}

type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

type Frustum struct {
	Planes [6]Plane
}

func NewDefaultCamera(width, height int32) *Camera {
	camera := Camera{
		Position:    mgl32.Vec3{0, 0, 10},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Pitch:       0.0,
		Yaw:         -90.0,
		Fov:         45.0,
		Near:        0.1,
		Far:         1000.0,
		AspectRatio: aspect(width, height),
	}
	camera.updateCameraVectors()
	camera.UpdateProjection()
	return &camera
}

func aspect(width, height int32) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

func (c *Camera) SetNear(near float32) {
	c.Near = near
	c.UpdateProjection()
}

func (c *Camera) SetFar(far float32) {
	c.Far = far
	c.UpdateProjection()
}

func (c *Camera) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.AspectRatio = aspectRatio
	c.UpdateProjection()
}

// Resize updates the aspect ratio for a new framebuffer size.
func (c *Camera) Resize(width, height int32) {
	c.SetAspectRatio(aspect(width, height))
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

// LookAt turns the camera towards target without moving it.
func (c *Camera) LookAt(target mgl32.Vec3) {
	direction := target.Sub(c.Position)
	if direction.LenSqr() == 0 {
		return
	}
	direction = direction.Normalize()
	c.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(direction.Y(), -1, 1)))))
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(direction.Z()), float64(direction.X()))))
	c.updateCameraVectors()
}

func (c *Camera) updateCameraVectors() {
	yawRad := float64(mgl32.DegToRad(c.Yaw))
	pitchRad := float64(mgl32.DegToRad(c.Pitch))

	front := mgl32.Vec3{
		float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		float32(math.Sin(pitchRad)),
		float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}

	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// RayFromNDC casts a world space ray from the camera through normalized
// device coordinates, both axes in [-1, 1] with y pointing up.
func (c *Camera) RayFromNDC(ndc mgl32.Vec2) Ray {
	clipCoords := mgl32.Vec4{ndc.X(), ndc.Y(), -1.0, 1.0}

	eyeCoords := c.Projection.Inv().Mul4x1(clipCoords)
	eyeCoords = mgl32.Vec4{eyeCoords.X(), eyeCoords.Y(), -1.0, 0.0}

	worldDir := c.GetViewMatrix().Inv().Mul4x1(eyeCoords).Vec3().Normalize()

	return Ray{
		Origin:    c.Position,
		Direction: worldDir,
	}
}

func (c *Camera) CalculateFrustum() Frustum {
	var frustum Frustum
	vp := c.GetViewProjection()

	frustum.Planes[0] = Plane{ // Left
		Normal:   mgl32.Vec3{vp[3] + vp[0], vp[7] + vp[4], vp[11] + vp[8]},
		Distance: vp[15] + vp[12],
	}
	frustum.Planes[1] = Plane{ // Right
		Normal:   mgl32.Vec3{vp[3] - vp[0], vp[7] - vp[4], vp[11] - vp[8]},
		Distance: vp[15] - vp[12],
	}
	frustum.Planes[2] = Plane{ // Bottom
		Normal:   mgl32.Vec3{vp[3] + vp[1], vp[7] + vp[5], vp[11] + vp[9]},
		Distance: vp[15] + vp[13],
	}
	frustum.Planes[3] = Plane{ // Top
		Normal:   mgl32.Vec3{vp[3] - vp[1], vp[7] - vp[5], vp[11] - vp[9]},
		Distance: vp[15] - vp[13],
	}
	frustum.Planes[4] = Plane{ // Near
		Normal:   mgl32.Vec3{vp[3] + vp[2], vp[7] + vp[6], vp[11] + vp[10]},
		Distance: vp[15] + vp[14],
	}
	frustum.Planes[5] = Plane{ // Far
		Normal:   mgl32.Vec3{vp[3] - vp[2], vp[7] - vp[6], vp[11] - vp[10]},
		Distance: vp[15] - vp[14],
	}

	for i := range frustum.Planes {
		length := frustum.Planes[i].Normal.Len()
		frustum.Planes[i].Normal = frustum.Planes[i].Normal.Mul(1.0 / length)
		frustum.Planes[i].Distance /= length
	}

	return frustum
}

func (p *Plane) DistanceToPoint(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}
