package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// RayIntersectSphere tests if a ray intersects a sphere
// Returns: (intersected, distance, intersection point)
func RayIntersectSphere(ray Ray, sphereCenter mgl32.Vec3, radius float32) (bool, float32, mgl32.Vec3) {
	oc := ray.Origin.Sub(sphereCenter)

	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius

	discriminant := b*b - 4*a*c
	if a == 0 || discriminant < 0 {
		return false, 0, mgl32.Vec3{}
	}

	sqrtDisc := float32(math.Sqrt(float64(discriminant)))
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)

	// Closest non-negative root; an origin inside the sphere hits at t2.
	var t float32
	switch {
	case t1 >= 0:
		t = t1
	case t2 >= 0:
		t = t2
	default:
		return false, 0, mgl32.Vec3{}
	}

	return true, t, ray.At(t)
}

// RayIntersectModel tests a ray against the model's world space bounding sphere.
// Returns: (intersected, distance, intersection point)
func RayIntersectModel(ray Ray, model *Model) (bool, float32, mgl32.Vec3) {
	if model == nil || model.BoundsRadius <= 0 {
		return false, 0, mgl32.Vec3{}
	}
	center, radius := model.WorldBoundingSphere()
	return RayIntersectSphere(ray, center, radius)
}
