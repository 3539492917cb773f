package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"Playground3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// ErrMissingSkeleton reports that a model has no rig to animate.
var ErrMissingSkeleton = errors.New("missing skeleton")

type rigFile struct {
	Bones []rigBone `yaml:"bones"`
}

type rigBone struct {
	Name   string     `yaml:"name"`
	Parent string     `yaml:"parent"`
	Offset [3]float32 `yaml:"offset"`
}

// RigPath returns the sidecar rig path for a model file: player.obj -> player.rig.yaml.
func RigPath(modelPath string) string {
	return strings.TrimSuffix(modelPath, filepath.Ext(modelPath)) + ".rig.yaml"
}

// LoadSkeleton reads a rig sidecar. A missing file or an empty bone list is
// reported as ErrMissingSkeleton.
func LoadSkeleton(path string) (*renderer.Skeleton, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingSkeleton)
	}
	if err != nil {
		return nil, err
	}
	return ParseSkeleton(data)
}

// ParseSkeleton decodes rig YAML. Parents must be declared before their children.
func ParseSkeleton(data []byte) (*renderer.Skeleton, error) {
	var rig rigFile
	if err := yaml.Unmarshal(data, &rig); err != nil {
		return nil, fmt.Errorf("decode rig: %w", err)
	}
	if len(rig.Bones) == 0 {
		return nil, ErrMissingSkeleton
	}

	skeleton := &renderer.Skeleton{Bones: make([]renderer.Bone, 0, len(rig.Bones))}
	for _, b := range rig.Bones {
		if b.Name == "" {
			return nil, errors.New("rig bone without a name")
		}
		if skeleton.Find(b.Name) >= 0 {
			return nil, fmt.Errorf("duplicate bone %q", b.Name)
		}
		parent := -1
		if b.Parent != "" {
			if parent = skeleton.Find(b.Parent); parent < 0 {
				return nil, fmt.Errorf("bone %q: unknown parent %q", b.Name, b.Parent)
			}
		}
		skeleton.Bones = append(skeleton.Bones, renderer.Bone{
			Name:   b.Name,
			Parent: parent,
			Offset: mgl32.Vec3(b.Offset),
		})
	}
	return skeleton, nil
}
