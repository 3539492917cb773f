package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"Playground3D/internal/logger"
	"Playground3D/internal/renderer"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
)

// DefaultLoadWorkers bounds how many files a FileSource parses at once.
const DefaultLoadWorkers = 4

var ErrSourceClosed = errors.New("asset source closed")

// AssetLoadError wraps any failure to produce a model from a path.
type AssetLoadError struct {
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load asset %s: %v", e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

// Result is the single outcome of an asynchronous load.
type Result struct {
	Path  string
	Model *renderer.Model
	Err   error
}

// Source loads models asynchronously. The returned channel delivers exactly
// one Result and is then closed. Loads cannot be cancelled.
type Source interface {
	Load(path string) <-chan Result
}

// FileSource reads OBJ models from disk on a bounded worker pool.
// When a rig sidecar sits next to the model it is attached as the skeleton.
type FileSource struct {
	Root string

	mu     sync.Mutex
	pool   pond.Pool
	closed bool
}

func NewFileSource(root string) *FileSource {
	return &FileSource{Root: root, pool: pond.NewPool(DefaultLoadWorkers)}
}

func (s *FileSource) Load(path string) <-chan Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Resolved(path, nil, ErrSourceClosed)
	}

	out := make(chan Result, 1)
	task := func() {
		defer close(out)
		out <- s.load(path)
	}
	if s.pool == nil {
		go task()
	} else {
		s.pool.Submit(task)
	}
	return out
}

// Close waits for queued loads to finish. Later loads fail with ErrSourceClosed.
func (s *FileSource) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if s.pool != nil {
		s.pool.StopAndWait()
	}
}

func (s *FileSource) load(path string) Result {
	full := path
	if s.Root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(s.Root, path)
	}

	model, err := LoadModel(full)
	if err != nil {
		return Result{Path: path, Err: &AssetLoadError{Path: path, Err: err}}
	}

	skeleton, err := LoadSkeleton(RigPath(full))
	switch {
	case err == nil:
		model.BindSkeleton(skeleton)
	case errors.Is(err, ErrMissingSkeleton):
	default:
		logger.Log.Warn("Ignoring unreadable rig", zap.String("path", path), zap.Error(err))
	}

	logger.Log.Debug("Model loaded",
		zap.String("path", path),
		zap.Int("vertices", len(model.Vertices)/3),
		zap.Int("triangles", len(model.Faces)/3))
	return Result{Path: path, Model: model}
}

// Resolved returns an already completed load, for callers that build models in
// process and for deterministic tests.
func Resolved(path string, model *renderer.Model, err error) <-chan Result {
	out := make(chan Result, 1)
	if err != nil {
		var loadErr *AssetLoadError
		if !errors.As(err, &loadErr) {
			err = &AssetLoadError{Path: path, Err: err}
		}
	}
	out <- Result{Path: path, Model: model, Err: err}
	close(out)
	return out
}

// Pending returns a load that the caller completes later through the returned
// function. Completing more than once panics, matching the one-shot contract.
func Pending(path string) (<-chan Result, func(*renderer.Model, error)) {
	out := make(chan Result, 1)
	complete := func(model *renderer.Model, err error) {
		if err != nil {
			err = &AssetLoadError{Path: path, Err: err}
		}
		out <- Result{Path: path, Model: model, Err: err}
		close(out)
	}
	return out, complete
}
