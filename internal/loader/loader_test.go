package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const quadOBJ = `# unit quad
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
f 1 2 3 4
`

func TestParseOBJTriangulatesQuad(t *testing.T) {
	model, err := ParseOBJ(strings.NewReader(quadOBJ), "")
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if len(model.Faces) != 6 {
		t.Errorf("Expected 6 indices for two triangles, got %d", len(model.Faces))
	}
	if len(model.Vertices) != 4*3 {
		t.Errorf("Expected 4 unique vertices, got %d", len(model.Vertices)/3)
	}
	if len(model.InterleavedData) != 4*8 {
		t.Errorf("Expected 32 interleaved floats, got %d", len(model.InterleavedData))
	}
	if model.BoundsRadius <= 0 {
		t.Error("Bounding sphere should be computed")
	}
}

func TestParseOBJRecalculatesMissingNormals(t *testing.T) {
	model, err := ParseOBJ(strings.NewReader(quadOBJ), "")
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	normal := mgl32.Vec3{model.InterleavedData[5], model.InterleavedData[6], model.InterleavedData[7]}
	if !normal.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-5) {
		t.Errorf("Expected +Z normal, got %v", normal)
	}
}

func TestParseOBJUsesFaceNormals(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 1 0
vt 0.5 0.5
f 1/1/1 2/1/1 3/1/1
`
	model, err := ParseOBJ(strings.NewReader(src), "")
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if model.InterleavedData[3] != 0.5 || model.InterleavedData[6] != 1 {
		t.Errorf("Texture coordinates and normals should come from the file, got %v", model.InterleavedData[:8])
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no faces", "v 0 0 0\n"},
		{"bad vertex", "v 0 x 0\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n"},
		{"negative index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -1 -2 -3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseOBJ(strings.NewReader(tt.src), ""); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestLoadModelWithMaterial(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "crate.mtl"), "newmtl wood\nKd 0.5 0.25 0.1\nNs 8\n")
	writeFile(t, filepath.Join(dir, "crate.obj"), "mtllib crate.mtl\nusemtl wood\n"+quadOBJ)

	model, err := LoadModel(filepath.Join(dir, "crate.obj"))
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	if model.Name != "crate" {
		t.Errorf("Expected name crate, got %q", model.Name)
	}
	if model.Material.DiffuseColor != [3]float32{0.5, 0.25, 0.1} || model.Material.Shininess != 8 {
		t.Errorf("Material not applied: %+v", model.Material)
	}
}

func TestLoadCubeAndPlane(t *testing.T) {
	cube := LoadCube(mgl32.Vec3{1, 2, 3})
	if len(cube.Faces) != 36 {
		t.Errorf("Expected 36 cube indices, got %d", len(cube.Faces))
	}

	plane, err := LoadPlane(3, 1)
	if err != nil {
		t.Fatalf("LoadPlane failed: %v", err)
	}
	if len(plane.Faces) != 2*2*6 {
		t.Errorf("Expected 24 plane indices, got %d", len(plane.Faces))
	}
	if _, err := LoadPlane(1, 1); err == nil {
		t.Error("gridSize 1 should be rejected")
	}
}

func TestParseSkeleton(t *testing.T) {
	src := `bones:
  - name: spine
    offset: [0, 1, 0]
  - name: ponytail
    parent: spine
    offset: [0, 0.5, -0.2]
`
	skeleton, err := ParseSkeleton([]byte(src))
	if err != nil {
		t.Fatalf("ParseSkeleton failed: %v", err)
	}

	if len(skeleton.Bones) != 2 || skeleton.Bones[1].Parent != 0 {
		t.Errorf("Unexpected bones: %+v", skeleton.Bones)
	}
}

func TestParseSkeletonErrors(t *testing.T) {
	if _, err := ParseSkeleton([]byte("bones: []\n")); !errors.Is(err, ErrMissingSkeleton) {
		t.Errorf("Empty rig should be ErrMissingSkeleton, got %v", err)
	}
	if _, err := ParseSkeleton([]byte("bones:\n  - name: a\n    parent: b\n")); err == nil {
		t.Error("Unknown parent should fail")
	}
	if _, err := ParseSkeleton([]byte("bones:\n  - name: a\n  - name: a\n")); err == nil {
		t.Error("Duplicate bone should fail")
	}
}

func TestLoadSkeletonMissingFile(t *testing.T) {
	_, err := LoadSkeleton(filepath.Join(t.TempDir(), "nope.rig.yaml"))
	if !errors.Is(err, ErrMissingSkeleton) {
		t.Errorf("Expected ErrMissingSkeleton, got %v", err)
	}
}

func TestRigPath(t *testing.T) {
	if got := RigPath("assets/player.obj"); got != "assets/player.rig.yaml" {
		t.Errorf("Unexpected rig path %q", got)
	}
}

func TestFileSourceLoadsWithRig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "player.obj"), quadOBJ)
	writeFile(t, filepath.Join(dir, "player.rig.yaml"), "bones:\n  - name: hair\n")

	res := receive(t, NewFileSource(dir).Load("player.obj"))

	if res.Err != nil {
		t.Fatalf("Load failed: %v", res.Err)
	}
	if res.Model.Skeleton == nil || res.Model.Skeleton.Find("hair") != 0 {
		t.Error("Rig sidecar should be attached")
	}
	if !res.Model.IsRigged() {
		t.Error("Mesh should be bound to the rig")
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	ch := NewFileSource(t.TempDir()).Load("ghost.obj")
	res := receive(t, ch)

	var loadErr *AssetLoadError
	if !errors.As(res.Err, &loadErr) {
		t.Fatalf("Expected AssetLoadError, got %v", res.Err)
	}
	if loadErr.Path != "ghost.obj" || res.Model != nil {
		t.Errorf("Unexpected result %+v", res)
	}
	if _, ok := <-ch; ok {
		t.Error("Channel should be closed after the single result")
	}
}

func TestFileSourceClose(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.obj"), quadOBJ)
	source := NewFileSource(dir)

	queued := make([]<-chan Result, 8)
	for i := range queued {
		queued[i] = source.Load("a.obj")
	}
	source.Close()
	source.Close()

	for i, ch := range queued {
		select {
		case res := <-ch:
			if res.Err != nil {
				t.Errorf("Load %d failed: %v", i, res.Err)
			}
		default:
			t.Errorf("Load %d not finished after Close", i)
		}
	}

	res := receive(t, source.Load("a.obj"))
	if !errors.Is(res.Err, ErrSourceClosed) {
		t.Errorf("Expected ErrSourceClosed, got %v", res.Err)
	}
}

func TestZeroFileSourceLoads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.obj"), quadOBJ)

	res := receive(t, (&FileSource{Root: dir}).Load("a.obj"))
	if res.Err != nil || res.Model == nil {
		t.Errorf("Unexpected result %+v", res)
	}
}

func TestResolvedWrapsErrors(t *testing.T) {
	res := <-Resolved("a.obj", nil, os.ErrNotExist)

	var loadErr *AssetLoadError
	if !errors.As(res.Err, &loadErr) || !errors.Is(res.Err, os.ErrNotExist) {
		t.Errorf("Expected wrapped AssetLoadError, got %v", res.Err)
	}
}

func TestPendingCompletesOnce(t *testing.T) {
	ch, complete := Pending("late.obj")

	select {
	case <-ch:
		t.Fatal("Pending load should not be ready yet")
	default:
	}

	complete(LoadCube(mgl32.Vec3{1, 1, 1}), nil)
	res := <-ch
	if res.Model == nil || res.Err != nil {
		t.Errorf("Unexpected result %+v", res)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func receive(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for load")
	}
	return Result{}
}
