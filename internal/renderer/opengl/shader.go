package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type Shader struct {
	vertexSource   string
	fragmentSource string
	program        uint32
	locations      map[string]int32
}

func (shader *Shader) Use() {
	gl.UseProgram(shader.program)
}

func (shader *Shader) location(name string) int32 {
	if loc, ok := shader.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(shader.program, gl.Str(name+"\x00"))
	shader.locations[name] = loc
	return loc
}

func (shader *Shader) SetMat4(name string, value mgl32.Mat4) {
	if loc := shader.location(name); loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &value[0])
	}
}

func (shader *Shader) SetVec3(name string, value mgl32.Vec3) {
	if loc := shader.location(name); loc != -1 {
		gl.Uniform3f(loc, value.X(), value.Y(), value.Z())
	}
}

func (shader *Shader) SetFloat(name string, value float32) {
	if loc := shader.location(name); loc != -1 {
		gl.Uniform1f(loc, value)
	}
}

// Compile builds and links the program.
func (shader *Shader) Compile() error {
	vertex, err := compileStage(shader.vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertex)

	fragment, err := compileStage(shader.fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragment)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		info := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(info))
		gl.DeleteProgram(program)
		return fmt.Errorf("link program: %s", info)
	}

	shader.program = program
	shader.locations = make(map[string]int32)
	return nil
}

func compileStage(source string, stage uint32) (uint32, error) {
	shader := gl.CreateShader(stage)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		info := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(info))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", info)
	}
	return shader, nil
}

var vertexShaderSource = `#version 410 core

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec2 inTexCoord;
layout(location = 2) in vec3 inNormal;

uniform mat4 model;
uniform mat4 viewProjection;

out vec3 Normal;
out vec3 FragPos;

void main() {
    FragPos = vec3(model * vec4(inPosition, 1.0));
    Normal = mat3(transpose(inverse(model))) * inNormal;
    gl_Position = viewProjection * vec4(FragPos, 1.0);
}
` + "\x00"

var fragmentShaderSource = `#version 410 core
in vec3 Normal;
in vec3 FragPos;

uniform struct Light {
    vec3 position;
    vec3 color;
    float intensity;
    float ambient;
} light;
uniform vec3 viewPos;
uniform vec3 diffuseColor;
uniform vec3 specularColor;
uniform float shininess;

out vec4 FragColor;

void main() {
    vec3 ambient = light.ambient * light.color * diffuseColor;

    vec3 norm = normalize(Normal);
    vec3 lightDir = normalize(light.position - FragPos);
    float diff = max(dot(norm, lightDir), 0.0);
    vec3 diffuse = diff * light.color * diffuseColor;

    vec3 viewDir = normalize(viewPos - FragPos);
    vec3 reflectDir = reflect(-lightDir, norm);
    float spec = pow(max(dot(viewDir, reflectDir), 0.0), shininess);
    vec3 specular = spec * light.color * specularColor;

    FragColor = vec4((ambient + diffuse + specular) * light.intensity, 1.0);
}
` + "\x00"

func defaultShader() Shader {
	return Shader{
		vertexSource:   vertexShaderSource,
		fragmentSource: fragmentShaderSource,
	}
}
