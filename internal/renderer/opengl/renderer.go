// Package opengl draws renderer.Models with an OpenGL 4.1 core context.
// It must be used from the thread that owns the context.
package opengl

import (
	"fmt"

	"Playground3D/internal/logger"
	"Playground3D/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type Renderer struct {
	Models         []*renderer.Model
	ClearColor     mgl32.Vec3
	FrustumCulling bool

	shader Shader
	posed  []float32
}

var _ renderer.Render = (*Renderer)(nil)

func New() *Renderer {
	return &Renderer{ClearColor: mgl32.Vec3{0.53, 0.75, 0.92}}
}

func (rend *Renderer) Init(width, height int32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("init opengl: %w", err)
	}
	rend.shader = defaultShader()
	if err := rend.shader.Compile(); err != nil {
		return fmt.Errorf("compile default shader: %w", err)
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.Viewport(0, 0, width, height)
	logger.Log.Info("OpenGL render initialized", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))
	return nil
}

func (rend *Renderer) AddModel(model *renderer.Model) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(model.InterleavedData) > 0 {
		usage := uint32(gl.STATIC_DRAW)
		if model.IsRigged() {
			usage = gl.DYNAMIC_DRAW
		}
		gl.BufferData(gl.ARRAY_BUFFER, len(model.InterleavedData)*4, gl.Ptr(model.InterleavedData), usage)
	}

	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	if len(model.Faces) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(model.Faces)*4, gl.Ptr(model.Faces), gl.STATIC_DRAW)
	}

	stride := int32(8 * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(5*4))
	gl.EnableVertexAttribArray(2)
	gl.BindVertexArray(0)

	model.VAO = vao
	model.VBO = vbo
	model.EBO = ebo
	model.IsDirty = true
	model.UpdateMatrix()

	rend.Models = append(rend.Models, model)
}

func (rend *Renderer) RemoveModel(model *renderer.Model) {
	for i, m := range rend.Models {
		if m == model {
			rend.Models = append(rend.Models[:i], rend.Models[i+1:]...)
			rend.release(m)
			return
		}
	}
}

func (rend *Renderer) UpdateViewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (rend *Renderer) Render(camera renderer.Camera, light *renderer.Light) {
	gl.ClearColor(rend.ClearColor.X(), rend.ClearColor.Y(), rend.ClearColor.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if light == nil {
		light = renderer.DefaultLight()
	}

	var frustum renderer.Frustum
	if rend.FrustumCulling {
		frustum = camera.CalculateFrustum()
	}

	rend.shader.Use()
	rend.shader.SetMat4("viewProjection", camera.GetViewProjection())
	rend.shader.SetVec3("viewPos", camera.Position)
	rend.shader.SetVec3("light.position", light.Position)
	rend.shader.SetVec3("light.color", light.Color)
	rend.shader.SetFloat("light.intensity", light.Intensity)
	rend.shader.SetFloat("light.ambient", light.Ambient)

	for _, model := range rend.Models {
		if rend.FrustumCulling {
			center, radius := model.WorldBoundingSphere()
			if !frustum.IntersectsSphere(center, radius) {
				continue
			}
		}
		model.UpdateMatrix()

		material := model.Material
		if material == nil {
			material = &renderer.DefaultMaterial
		}
		rend.shader.SetMat4("model", model.ModelMatrix)
		rend.shader.SetVec3("diffuseColor", material.DiffuseColor)
		rend.shader.SetVec3("specularColor", material.SpecularColor)
		rend.shader.SetFloat("shininess", material.Shininess)

		if model.IsRigged() {
			rend.posed = model.PosedVertexData(rend.posed[:0])
			gl.BindBuffer(gl.ARRAY_BUFFER, model.VBO)
			gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(rend.posed)*4, gl.Ptr(rend.posed))
		}

		gl.BindVertexArray(model.VAO)
		gl.DrawElements(gl.TRIANGLES, int32(len(model.Faces)), gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

func (rend *Renderer) Cleanup() {
	for _, model := range rend.Models {
		rend.release(model)
	}
	rend.Models = nil
	if rend.shader.program != 0 {
		gl.DeleteProgram(rend.shader.program)
	}
}

func (rend *Renderer) release(model *renderer.Model) {
	gl.DeleteVertexArrays(1, &model.VAO)
	gl.DeleteBuffers(1, &model.VBO)
	gl.DeleteBuffers(1, &model.EBO)
}
