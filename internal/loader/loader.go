package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"Playground3D/internal/logger"
	"Playground3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// LoadModel reads a Wavefront OBJ file. Materials referenced through mtllib are
// resolved relative to the OBJ file; a missing material file is not an error.
func LoadModel(filename string) (*renderer.Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	model, err := ParseOBJ(file, filepath.Dir(filename))
	if err != nil {
		return nil, err
	}
	model.SourcePath = filename
	model.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return model, nil
}

// ParseOBJ builds a model from OBJ text. dir is used to resolve mtllib statements.
func ParseOBJ(r io.Reader, dir string) (*renderer.Model, error) {
	var positions, texCoords, normals []float32
	var corners []FaceVertex
	var materials map[string]*renderer.Material

	model := &renderer.Model{}
	mat := renderer.DefaultMaterial
	model.Material = &mat

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 || strings.HasPrefix(parts[0], "#") {
			continue
		}
		switch parts[0] {
		case "v":
			v, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, v...)
		case "vn":
			n, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, n...)
		case "vt":
			tc, err := parseFloats(parts[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texture coordinate: %w", lineNo, err)
			}
			texCoords = append(texCoords, tc...)
		case "f":
			face, err := parseFace(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: face: %w", lineNo, err)
			}
			corners = append(corners, face...)
		case "mtllib":
			if len(parts) >= 2 {
				materials = LoadMaterials(filepath.Join(dir, parts[1]))
			}
		case "usemtl":
			if len(parts) >= 2 {
				if m, ok := materials[parts[1]]; ok {
					model.Material = m
				} else {
					logger.Log.Debug("Material not found", zap.String("material", parts[1]))
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(corners) == 0 {
		return nil, errors.New("no faces")
	}

	vertexCount := int32(len(positions) / 3)
	unified := make(map[FaceVertex]int32)
	var vertices, interleaved []float32
	var faces []int32
	for _, c := range corners {
		if c.VertexIdx < 0 || c.VertexIdx >= vertexCount {
			return nil, fmt.Errorf("vertex index %d out of range", c.VertexIdx+1)
		}
		if idx, ok := unified[c]; ok {
			faces = append(faces, idx)
			continue
		}
		idx := int32(len(vertices) / 3)
		unified[c] = idx
		faces = append(faces, idx)

		p := positions[c.VertexIdx*3 : c.VertexIdx*3+3]
		vertices = append(vertices, p...)
		interleaved = append(interleaved, p...)
		if c.TexCoordIdx >= 0 && int(c.TexCoordIdx)*2+1 < len(texCoords) {
			interleaved = append(interleaved, texCoords[c.TexCoordIdx*2:c.TexCoordIdx*2+2]...)
		} else {
			interleaved = append(interleaved, 0, 0)
		}
		if c.NormalIdx >= 0 && int(c.NormalIdx)*3+2 < len(normals) {
			interleaved = append(interleaved, normals[c.NormalIdx*3:c.NormalIdx*3+3]...)
		} else {
			interleaved = append(interleaved, 0, 0, 0)
		}
	}

	if len(normals) == 0 {
		recalculated := RecalculateNormals(vertices, faces)
		for i := 0; i < len(vertices)/3; i++ {
			copy(interleaved[i*8+5:i*8+8], recalculated[i*3:i*3+3])
		}
	}

	model.Vertices = vertices
	model.Faces = faces
	model.InterleavedData = interleaved
	model.Rotation = mgl32.QuatIdent()
	model.Scale = mgl32.Vec3{1, 1, 1}
	model.CalculateBoundingSphere()
	model.IsDirty = true
	model.UpdateMatrix()
	return model, nil
}

// LoadMaterials reads diffuse, specular and shininess values from a .mtl file.
// It never fails: unreadable files yield an empty map.
func LoadMaterials(filename string) map[string]*renderer.Material {
	materials := make(map[string]*renderer.Material)

	file, err := os.Open(filename)
	if err != nil {
		logger.Log.Warn("Could not open material file", zap.String("path", filename), zap.Error(err))
		return materials
	}
	defer file.Close()

	var current *renderer.Material
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				continue
			}
			m := renderer.DefaultMaterial
			m.Name = fields[1]
			current = &m
			materials[fields[1]] = current
			continue
		}
		if current == nil {
			continue
		}
		switch fields[0] {
		case "Kd":
			if c, err := parseFloats(fields[1:], 3); err == nil {
				current.DiffuseColor = [3]float32{c[0], c[1], c[2]}
			}
		case "Ks":
			if c, err := parseFloats(fields[1:], 3); err == nil {
				current.SpecularColor = [3]float32{c[0], c[1], c[2]}
			}
		case "Ns":
			if s, err := parseFloats(fields[1:], 1); err == nil {
				current.Shininess = s[0]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Log.Warn("Error reading material file", zap.String("path", filename), zap.Error(err))
	}
	return materials
}

func parseFloats(parts []string, n int) ([]float32, error) {
	if len(parts) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(parts))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		val, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", parts[i], err)
		}
		out[i] = float32(val)
	}
	return out, nil
}

type FaceVertex struct {
	VertexIdx   int32
	TexCoordIdx int32
	NormalIdx   int32
}

// parseFace reads v, v/vt, v//vn or v/vt/vn corners and fan-triangulates polygons.
func parseFace(parts []string) ([]FaceVertex, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("expected at least 3 corners, got %d", len(parts))
	}

	face := make([]FaceVertex, 0, len(parts))
	for _, part := range parts {
		vals := strings.Split(part, "/")

		vertexIdx, err := parseIndex(vals[0])
		if err != nil {
			return nil, err
		}
		fv := FaceVertex{VertexIdx: vertexIdx, TexCoordIdx: -1, NormalIdx: -1}
		if len(vals) > 1 && vals[1] != "" {
			if fv.TexCoordIdx, err = parseIndex(vals[1]); err != nil {
				return nil, err
			}
		}
		if len(vals) > 2 && vals[2] != "" {
			if fv.NormalIdx, err = parseIndex(vals[2]); err != nil {
				return nil, err
			}
		}
		face = append(face, fv)
	}

	if len(face) == 3 {
		return face, nil
	}
	triangulated := make([]FaceVertex, 0, (len(face)-2)*3)
	for i := 1; i < len(face)-1; i++ {
		triangulated = append(triangulated, face[0], face[i], face[i+1])
	}
	return triangulated, nil
}

// parseIndex converts a 1-based OBJ index to 0-based.
func parseIndex(s string) (int32, error) {
	idx, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", s, err)
	}
	if idx <= 0 {
		return 0, fmt.Errorf("unsupported index %d", idx)
	}
	return int32(idx - 1), nil
}

func RecalculateNormals(vertices []float32, faces []int32) []float32 {
	normals := make([]float32, len(vertices))
	if len(vertices) == 0 || len(faces) == 0 {
		return normals
	}

	for i := 0; i+2 < len(faces); i += 3 {
		idx0 := faces[i] * 3
		idx1 := faces[i+1] * 3
		idx2 := faces[i+2] * 3
		if idx0+2 >= int32(len(vertices)) || idx1+2 >= int32(len(vertices)) || idx2+2 >= int32(len(vertices)) {
			continue
		}

		v0 := mgl32.Vec3{vertices[idx0], vertices[idx0+1], vertices[idx0+2]}
		v1 := mgl32.Vec3{vertices[idx1], vertices[idx1+1], vertices[idx1+2]}
		v2 := mgl32.Vec3{vertices[idx2], vertices[idx2+1], vertices[idx2+2]}

		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		for j := int32(0); j < 3; j++ {
			normals[idx0+j] += normal[j]
			normals[idx1+j] += normal[j]
			normals[idx2+j] += normal[j]
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if n.LenSqr() == 0 {
			continue
		}
		n = n.Normalize()
		normals[i], normals[i+1], normals[i+2] = n[0], n[1], n[2]
	}
	return normals
}

// LoadCube builds a box with the given half extents, used for props and as a
// stand-in when a scene entity has no model file.
func LoadCube(halfExtents mgl32.Vec3) *renderer.Model {
	x, y, z := halfExtents.X(), halfExtents.Y(), halfExtents.Z()
	corners := []mgl32.Vec3{
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
	}
	indices := []int32{
		0, 1, 2, 0, 2, 3, // front
		5, 4, 7, 5, 7, 6, // back
		4, 0, 3, 4, 3, 7, // left
		1, 5, 6, 1, 6, 2, // right
		3, 2, 6, 3, 6, 7, // top
		4, 5, 1, 4, 1, 0, // bottom
	}
	model := renderer.CreateModel(corners, indices)
	applyNormals(model)
	model.Name = "cube"
	return model
}

// LoadPlane builds a flat grid on the XZ plane centred at the origin.
func LoadPlane(gridSize int, gridSpacing float32) (*renderer.Model, error) {
	if gridSize < 2 {
		return nil, errors.New("gridSize must be at least 2")
	}

	offset := float32(gridSize-1) * gridSpacing / 2
	vertices := make([]mgl32.Vec3, 0, gridSize*gridSize)
	for x := 0; x < gridSize; x++ {
		for z := 0; z < gridSize; z++ {
			vertices = append(vertices, mgl32.Vec3{float32(x)*gridSpacing - offset, 0, float32(z)*gridSpacing - offset})
		}
	}

	indices := make([]int32, 0, (gridSize-1)*(gridSize-1)*6)
	for x := 0; x < gridSize-1; x++ {
		for z := 0; z < gridSize-1; z++ {
			topLeft := int32(x*gridSize + z)
			topRight := topLeft + 1
			bottomLeft := int32((x+1)*gridSize + z)
			bottomRight := bottomLeft + 1
			indices = append(indices, topLeft, topRight, bottomRight, topLeft, bottomRight, bottomLeft)
		}
	}

	model := renderer.CreateModel(vertices, indices)
	applyNormals(model)
	model.Name = "plane"
	return model, nil
}

func applyNormals(model *renderer.Model) {
	normals := RecalculateNormals(model.Vertices, model.Faces)
	for i := 0; i < len(model.Vertices)/3; i++ {
		copy(model.InterleavedData[i*8+5:i*8+8], normals[i*3:i*3+3])
	}
}
