// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about generator stages and written
// artifacts.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGeneratorHooks(&myGeneratorHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Generator().OnStageStart(ctx, "parse")
//	// ... run the stage ...
//	observability.Generator().OnStageComplete(ctx, "parse", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names reported by the generation pipeline, in execution order.
const (
	StageParse  = "parse"
	StageGroup  = "group"
	StageNets   = "nets"
	StagePlace  = "place"
	StageRender = "render"
)

// GeneratorHooks receives events from the generation pipeline.
type GeneratorHooks interface {
	// OnStageStart fires when a pipeline stage begins.
	OnStageStart(ctx context.Context, stage string)

	// OnStageComplete fires when a pipeline stage finishes, successfully
	// or not.
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)

	// OnArtifact fires once per rendered artifact. changed is false when
	// the artifact is byte-identical to the previously committed file.
	OnArtifact(ctx context.Context, name string, size int, changed bool)
}

// NoopGeneratorHooks is a no-op implementation of GeneratorHooks.
type NoopGeneratorHooks struct{}

func (NoopGeneratorHooks) OnStageStart(context.Context, string)                          {}
func (NoopGeneratorHooks) OnStageComplete(context.Context, string, time.Duration, error) {}
func (NoopGeneratorHooks) OnArtifact(context.Context, string, int, bool)                 {}

var (
	generatorHooks GeneratorHooks = NoopGeneratorHooks{}
	hooksMu        sync.RWMutex
)

// SetGeneratorHooks registers custom generator hooks.
// This should be called once at application startup before any pipeline runs.
func SetGeneratorHooks(h GeneratorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		generatorHooks = h
	}
}

// Generator returns the registered generator hooks.
func Generator() GeneratorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return generatorHooks
}

// Reset restores the no-op default hooks.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	generatorHooks = NoopGeneratorHooks{}
}
