package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMaterial provides a basic material to fall back on
var DefaultMaterial = Material{
	Name:          "default",
	DiffuseColor:  [3]float32{0.8, 0.8, 0.8},
	SpecularColor: [3]float32{1.0, 1.0, 1.0},
	Shininess:     32.0,
}

type Material struct {
	DiffuseColor  [3]float32 // Base color for lighting
	SpecularColor [3]float32 // Specular highlight color
	Shininess     float32    // Specular exponent
	Name          string
}

type Model struct {
	// HOT DATA - Accessed every frame by the sync pass and the render loop
	ModelMatrix mgl32.Mat4 // Transformation matrix
	Position    mgl32.Vec3 // Position in world space
	Scale       mgl32.Vec3 // Scale factors
	Rotation    mgl32.Quat // Rotation quaternion
	Material    *Material
	VAO         uint32 // Vertex Array Object, owned by the OpenGL renderer
	VBO         uint32 // Vertex Buffer Object
	EBO         uint32 // Element Buffer Object
	IsDirty     bool   // Model matrix needs recalculation

	// MEDIUM DATA - picking and cosmetic animation
	BoundsCenter mgl32.Vec3 // Local space bounding sphere centre
	BoundsRadius float32    // Local space bounding sphere radius
	Skeleton     *Skeleton  // Optional rig for secondary motion
	VertexBones  []int32    // Bone index per vertex, set by BindSkeleton

	// COLD DATA - Initialization only
	Name            string
	SourcePath      string    // Original file path
	Vertices        []float32 // Vertex position data, xyz per vertex
	Faces           []int32   // Triangle indices
	InterleavedData []float32 // Position, texture coordinate and normal per vertex
}

// Bone is one joint of a Skeleton. Offset is relative to the parent bone,
// or to the model origin for root bones (Parent < 0).
type Bone struct {
	Name   string
	Parent int
	Offset mgl32.Vec3
	// Pose is the animated displacement applied on top of Offset.
	Pose mgl32.Vec3
}

type Skeleton struct {
	Bones []Bone
}

// Find returns the index of the named bone or -1.
func (s *Skeleton) Find(name string) int {
	if s == nil {
		return -1
	}
	for i := range s.Bones {
		if s.Bones[i].Name == name {
			return i
		}
	}
	return -1
}

// LocalPosition resolves a bone's rest plus pose position in model space.
func (s *Skeleton) LocalPosition(i int) mgl32.Vec3 {
	var p mgl32.Vec3
	for i >= 0 && i < len(s.Bones) {
		b := s.Bones[i]
		p = p.Add(b.Offset).Add(b.Pose)
		i = b.Parent
	}
	return p
}

// RestPosition resolves a bone's rest position in model space, ignoring pose.
func (s *Skeleton) RestPosition(i int) mgl32.Vec3 {
	var p mgl32.Vec3
	for i >= 0 && i < len(s.Bones) {
		p = p.Add(s.Bones[i].Offset)
		i = s.Bones[i].Parent
	}
	return p
}

// Displacement is the accumulated pose of bone i and its ancestors.
func (s *Skeleton) Displacement(i int) mgl32.Vec3 {
	var d mgl32.Vec3
	for i >= 0 && i < len(s.Bones) {
		d = d.Add(s.Bones[i].Pose)
		i = s.Bones[i].Parent
	}
	return d
}

// BindSkeleton attaches s and binds every vertex to the bone nearest to it at rest.
func (m *Model) BindSkeleton(s *Skeleton) {
	m.Skeleton = s
	m.VertexBones = nil
	if s == nil || len(s.Bones) == 0 {
		return
	}

	rest := make([]mgl32.Vec3, len(s.Bones))
	for i := range rest {
		rest[i] = s.RestPosition(i)
	}

	count := len(m.InterleavedData) / 8
	m.VertexBones = make([]int32, count)
	for v := 0; v < count; v++ {
		p := mgl32.Vec3{m.InterleavedData[v*8], m.InterleavedData[v*8+1], m.InterleavedData[v*8+2]}
		best, bestDist := 0, float32(math.MaxFloat32)
		for b, r := range rest {
			if d := p.Sub(r).LenSqr(); d < bestDist {
				best, bestDist = b, d
			}
		}
		m.VertexBones[v] = int32(best)
	}
}

// IsRigged reports whether the mesh follows its skeleton's pose.
func (m *Model) IsRigged() bool {
	return m.Skeleton != nil && len(m.VertexBones) > 0 && len(m.VertexBones)*8 == len(m.InterleavedData)
}

// PosedVertexData appends the interleaved vertex data to dst with every
// position moved by its bone's displacement. Unrigged models are copied as is.
func (m *Model) PosedVertexData(dst []float32) []float32 {
	dst = append(dst, m.InterleavedData...)
	if !m.IsRigged() {
		return dst
	}
	base := len(dst) - len(m.InterleavedData)

	displacement := make([]mgl32.Vec3, len(m.Skeleton.Bones))
	for i := range displacement {
		displacement[i] = m.Skeleton.Displacement(i)
	}
	for v, bone := range m.VertexBones {
		d := displacement[bone]
		o := base + v*8
		dst[o] += d[0]
		dst[o+1] += d[1]
		dst[o+2] += d[2]
	}
	return dst
}

func (m *Model) X() float32 {
	return m.Position[0]
}

func (m *Model) Y() float32 {
	return m.Position[1]
}

func (m *Model) Z() float32 {
	return m.Position[2]
}

// Rotate applies euler angles in degrees on top of the current rotation.
func (m *Model) Rotate(angleX, angleY, angleZ float32) {
	if m.Rotation == (mgl32.Quat{}) {
		m.Rotation = mgl32.QuatIdent()
	}
	rotationX := mgl32.QuatRotate(mgl32.DegToRad(angleX), mgl32.Vec3{1, 0, 0})
	rotationY := mgl32.QuatRotate(mgl32.DegToRad(angleY), mgl32.Vec3{0, 1, 0})
	rotationZ := mgl32.QuatRotate(mgl32.DegToRad(angleZ), mgl32.Vec3{0, 0, 1})
	m.Rotation = m.Rotation.Mul(rotationX).Mul(rotationY).Mul(rotationZ)
	m.updateModelMatrix()
}

func (m *Model) SetPosition(x, y, z float32) {
	m.SetPositionVec(mgl32.Vec3{x, y, z})
}

func (m *Model) SetPositionVec(p mgl32.Vec3) {
	m.Position = p
	m.updateModelMatrix()
}

func (m *Model) SetRotationQuat(q mgl32.Quat) {
	m.Rotation = q
	m.updateModelMatrix()
}

func (m *Model) SetScale(x, y, z float32) {
	m.SetScaleVec(mgl32.Vec3{x, y, z})
}

func (m *Model) SetScaleVec(s mgl32.Vec3) {
	m.Scale = s
	m.updateModelMatrix()
}

// CalculateBoundingSphere computes the local space bounding sphere from the vertices.
func (m *Model) CalculateBoundingSphere() {
	numVertices := len(m.Vertices) / 3
	if numVertices == 0 {
		m.BoundsCenter = mgl32.Vec3{}
		m.BoundsRadius = 0
		return
	}

	var center mgl32.Vec3
	for i := 0; i < numVertices; i++ {
		center = center.Add(mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]})
	}
	center = center.Mul(1.0 / float32(numVertices))

	var maxDistanceSq float32
	for i := 0; i < numVertices; i++ {
		vertex := mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
		if d := vertex.Sub(center).LenSqr(); d > maxDistanceSq {
			maxDistanceSq = d
		}
	}

	m.BoundsCenter = center
	m.BoundsRadius = float32(math.Sqrt(float64(maxDistanceSq)))
}

// WorldBoundingSphere returns the bounding sphere under the current transform.
func (m *Model) WorldBoundingSphere() (mgl32.Vec3, float32) {
	scale := m.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	center := ApplyModelTransformation(m.BoundsCenter, m.Position, scale, m.rotation())
	maxScale := float32(math.Max(math.Abs(float64(scale[0])), math.Max(math.Abs(float64(scale[1])), math.Abs(float64(scale[2])))))
	return center, m.BoundsRadius * maxScale
}

func (m *Model) rotation() mgl32.Quat {
	if m.Rotation == (mgl32.Quat{}) {
		return mgl32.QuatIdent()
	}
	return m.Rotation
}

// UpdateMatrix recalculates the model matrix if a field was written directly.
func (m *Model) UpdateMatrix() {
	if m.IsDirty {
		m.updateModelMatrix()
	}
}

func (m *Model) updateModelMatrix() {
	// TRS order: scale first, then rotate, then translate
	scaleMatrix := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	rotationMatrix := m.rotation().Mat4()
	translationMatrix := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	m.ModelMatrix = translationMatrix.Mul4(rotationMatrix).Mul4(scaleMatrix)
	m.IsDirty = false
}

func ApplyModelTransformation(vertex, position, scale mgl32.Vec3, rotation mgl32.Quat) mgl32.Vec3 {
	scaled := mgl32.Vec3{vertex[0] * scale[0], vertex[1] * scale[1], vertex[2] * scale[2]}
	return rotation.Rotate(scaled).Add(position)
}

func (m *Model) SetDiffuseColor(r, g, b float32) {
	m.ensureMaterial()
	m.Material.DiffuseColor = [3]float32{r, g, b}
}

func (m *Model) ensureMaterial() {
	if m.Material == nil {
		mat := DefaultMaterial
		m.Material = &mat
	}
}

// CreateModel builds a model from positions and triangle indices with flat placeholder normals.
func CreateModel(vertices []mgl32.Vec3, indices []int32) *Model {
	interleavedData := make([]float32, 0, len(vertices)*8)
	for _, v := range vertices {
		interleavedData = append(interleavedData, v.X(), v.Y(), v.Z())
		interleavedData = append(interleavedData, 0.0, 0.0)
		interleavedData = append(interleavedData, 0.0, 1.0, 0.0)
	}

	m := &Model{
		Rotation:        mgl32.QuatIdent(),
		Scale:           mgl32.Vec3{1.0, 1.0, 1.0},
		Vertices:        flattenVertices(vertices),
		Faces:           indices,
		InterleavedData: interleavedData,
	}
	m.ensureMaterial()
	m.CalculateBoundingSphere()
	m.updateModelMatrix()
	return m
}

func flattenVertices(vertices []mgl32.Vec3) []float32 {
	flat := make([]float32, 0, len(vertices)*3)
	for _, v := range vertices {
		flat = append(flat, v.X(), v.Y(), v.Z())
	}
	return flat
}

// Clone returns a copy that shares mesh data with m but has its own
// transform, material and skeleton. GPU buffers are not shared; the copy
// must be added to a renderer separately.
func (m *Model) Clone() *Model {
	c := *m
	c.VAO, c.VBO, c.EBO = 0, 0, 0
	if m.Material != nil {
		mat := *m.Material
		c.Material = &mat
	}
	if m.Skeleton != nil {
		c.Skeleton = &Skeleton{Bones: append([]Bone(nil), m.Skeleton.Bones...)}
	}
	return &c
}
