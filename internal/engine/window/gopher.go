// Package window hosts a FrameLoop in a glfw window with an OpenGL renderer.
package window

import (
	"context"
	"fmt"
	"runtime"

	"Playground3D/internal/engine"
	"Playground3D/internal/interact"
	"Playground3D/internal/logger"
	"Playground3D/internal/renderer"
	"Playground3D/internal/renderer/opengl"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Gopher owns the window, the GL renderer and the input callbacks, and
// drives a FrameLoop until the window closes.
type Gopher struct {
	Width  int32
	Height int32
	Title  string
	VSync  bool

	Loop *engine.FrameLoop
	// OnReset, when set, is called on the R key. The returned loop replaces
	// Loop; the callback is responsible for releasing the old scene.
	OnReset func() *engine.FrameLoop

	rendererAPI renderer.Render
	window      *glfw.Window
	ready       bool
	queued      []*renderer.Model
}

// NewGopher wires loop to an OpenGL renderer. Models entering the scene are
// uploaded once the GL context exists.
func NewGopher(loop *engine.FrameLoop, width, height int32, title string) *Gopher {
	rend := opengl.New()
	g := &Gopher{
		Width:       width,
		Height:      height,
		Title:       title,
		VSync:       true,
		rendererAPI: rend,
	}
	g.attach(loop)
	return g
}

func (gopher *Gopher) attach(loop *engine.FrameLoop) {
	loop.Renderer = gopher.rendererAPI
	loop.Scene.OnModelAdded = gopher.AddModel
	loop.Scene.Camera.Resize(gopher.Width, gopher.Height)
	gopher.Loop = loop
}

func (gopher *Gopher) AddModel(model *renderer.Model) {
	if !gopher.ready {
		gopher.queued = append(gopher.queued, model)
		return
	}
	gopher.rendererAPI.AddModel(model)
}

func (gopher *Gopher) RemoveModel(model *renderer.Model) {
	if !gopher.ready {
		for i, m := range gopher.queued {
			if m == model {
				gopher.queued = append(gopher.queued[:i], gopher.queued[i+1:]...)
				return
			}
		}
		return
	}
	gopher.rendererAPI.RemoveModel(model)
}

// Run blocks until the window is closed or ctx is cancelled. It must be
// called from the main goroutine.
func (gopher *Gopher) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(gopher.Width), int(gopher.Height), gopher.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	gopher.window = window
	window.MakeContextCurrent()
	if gopher.VSync {
		glfw.SwapInterval(1)
	}

	fbWidth, fbHeight := window.GetFramebufferSize()
	if err := gopher.rendererAPI.Init(int32(fbWidth), int32(fbHeight)); err != nil {
		return err
	}
	gopher.ready = true
	for _, model := range gopher.queued {
		gopher.rendererAPI.AddModel(model)
	}
	gopher.queued = nil

	gopher.Loop.Scene.Camera.Resize(gopher.Width, gopher.Height)

	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	window.SetMouseButtonCallback(gopher.mouseButtonCallback)
	window.SetCursorPosCallback(gopher.cursorCallback)
	window.SetFramebufferSizeCallback(gopher.resizeCallback)
	window.SetKeyCallback(gopher.keyCallback)

	logger.Log.Info("Window opened",
		zap.Int32("width", gopher.Width),
		zap.Int32("height", gopher.Height),
		zap.Bool("vsync", gopher.VSync))

	gopher.renderLoop(ctx)
	gopher.rendererAPI.Cleanup()
	return nil
}

func (gopher *Gopher) renderLoop(ctx context.Context) {
	for !gopher.window.ShouldClose() {
		select {
		case <-ctx.Done():
			logger.Log.Info("Render loop cancelled", zap.Error(ctx.Err()))
			return
		default:
		}

		gopher.Loop.Tick()
		gopher.window.SwapBuffers()
		glfw.PollEvents()
	}
}

func (gopher *Gopher) handle(ev interact.PointerEvent) {
	if gopher.Loop.Drag != nil {
		gopher.Loop.Drag.Handle(ev)
	}
}

func (gopher *Gopher) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		x, y := w.GetCursorPos()
		width, height := w.GetSize()
		gopher.handle(interact.PressAt(x, y, width, height))
	case glfw.Release:
		gopher.handle(interact.Release{})
	}
}

func (gopher *Gopher) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key != glfw.KeyR || action != glfw.Press || gopher.OnReset == nil {
		return
	}
	if loop := gopher.OnReset(); loop != nil {
		gopher.attach(loop)
	}
}

func (gopher *Gopher) cursorCallback(w *glfw.Window, xpos, ypos float64) {
	width, height := w.GetSize()
	gopher.handle(interact.MoveTo(xpos, ypos, width, height))
}

// Framebuffer size drives the viewport; window size drives the aspect and
// pointer normalisation. They differ on high-DPI displays.
func (gopher *Gopher) resizeCallback(w *glfw.Window, fbWidth, fbHeight int) {
	if fbWidth == 0 || fbHeight == 0 {
		// Minimised.
		return
	}
	width, height := w.GetSize()
	gopher.Width, gopher.Height = int32(width), int32(height)
	gopher.Loop.Scene.Camera.Resize(gopher.Width, gopher.Height)
	gopher.rendererAPI.UpdateViewport(int32(fbWidth), int32(fbHeight))
}
