// Package logger holds the process-wide structured logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

// Log is a no-op until Init runs, so packages can log from tests without setup.
var Log = zap.NewNop()

var once sync.Once

// Init installs the production logger. Calling it again is a no-op.
func Init() {
	once.Do(func() {
		install(zap.NewProductionConfig())
	})
}

// InitDebug installs a development logger with debug level enabled.
func InitDebug() {
	once.Do(func() {
		install(zap.NewDevelopmentConfig())
	})
}

func install(cfg zap.Config) {
	l, err := cfg.Build()
	if err != nil {
		// Keep the no-op logger rather than failing startup over logging.
		return
	}
	Log = l.Named("playground")
}

// Sync flushes any buffered entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = Log.Sync()
}
