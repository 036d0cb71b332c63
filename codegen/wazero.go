package codegen

import (
	"context"
	"sync"
	"time"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/jit-core/compiler"
	"github.com/wippyai/jit-core/errors"
	"github.com/wippyai/jit-core/queue"
)

// Counters is the completion sink the backend reports to. Satisfied by
// *compiler.Compiler.
type Counters interface {
	IncMethodsCompiled()
}

// Config holds configuration for backend creation
type Config struct {
	// CacheDir enables wazero's file-system compilation cache so repeated
	// warm-ups skip code generation. Optional.
	CacheDir string

	// Timers receives install durations. Wire the compiler's Timers here so
	// PrintTimers reports this backend's installs. Required for accounting;
	// a private instance is created when nil.
	Timers *compiler.Timers

	// Counters is notified once per installed method. Optional.
	Counters Counters

	// Logger defaults to nop.
	Logger *zap.Logger
}

// Backend generates and installs code for compile jobs using wazero.
type Backend struct {
	runtime wazero.Runtime
	timers  *compiler.Timers
	ctrs    Counters
	log     *zap.Logger

	mu        sync.RWMutex
	installed map[string]wazero.CompiledModule
}

// New creates a backend owning a wazero runtime.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	rcfg := wazero.NewRuntimeConfig()
	if cfg.CacheDir != "" {
		cache, err := wazero.NewCompilationCacheWithDir(cfg.CacheDir)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseCompile, errors.KindInvalidInput, err, "open compilation cache")
		}
		rcfg = rcfg.WithCompilationCache(cache)
	}
	if cfg.Timers == nil {
		cfg.Timers = &compiler.Timers{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Backend{
		runtime:   wazero.NewRuntimeWithConfig(ctx, rcfg),
		timers:    cfg.Timers,
		ctrs:      cfg.Counters,
		log:       cfg.Logger,
		installed: make(map[string]wazero.CompiledModule),
	}, nil
}

// CompileFunc returns the job executor to hand the queue. The full
// generate-and-install step counts toward the broker-path install timer.
func (b *Backend) CompileFunc() queue.CompileFunc {
	return func(ctx context.Context, job *queue.Job) error {
		name := job.Method.FullName()
		if len(job.Method.Body) == 0 {
			return errors.InvalidInput(errors.PhaseCompile, "method %s has no body", name)
		}

		start := time.Now()
		compiled, err := b.runtime.CompileModule(ctx, job.Method.Body)
		if err != nil {
			return errors.Wrap(errors.PhaseCompile, errors.KindInvalidInput, err, name)
		}
		b.install(name, compiled)
		b.timers.AddCodeInstall(time.Since(start))

		if b.ctrs != nil {
			b.ctrs.IncMethodsCompiled()
		}
		b.log.Debug("installed method",
			zap.String("method", name),
			zap.Stringer("tier", job.Tier))
		return nil
	}
}

// InstallHosted compiles and installs code outside the broker path, e.g.
// standalone or precompiled modules. Accounts into the hosted install timer.
func (b *Backend) InstallHosted(ctx context.Context, name string, body []byte) error {
	if len(body) == 0 {
		return errors.InvalidInput(errors.PhaseInstall, "hosted install of %s: empty body", name)
	}

	start := time.Now()
	compiled, err := b.runtime.CompileModule(ctx, body)
	if err != nil {
		return errors.Wrap(errors.PhaseInstall, errors.KindInvalidInput, err, name)
	}
	b.install(name, compiled)
	b.timers.AddHostedCodeInstall(time.Since(start))
	return nil
}

// Installed reports whether code for name is present in the code table.
func (b *Backend) Installed(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.installed[name]
	return ok
}

// InstalledCount returns the number of entries in the code table.
func (b *Backend) InstalledCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.installed)
}

// Close releases the wazero runtime and all installed code.
func (b *Backend) Close(ctx context.Context) error {
	return b.runtime.Close(ctx)
}

func (b *Backend) install(name string, m wazero.CompiledModule) {
	b.mu.Lock()
	if prev, ok := b.installed[name]; ok {
		_ = prev.Close(context.Background())
	}
	b.installed[name] = m
	b.mu.Unlock()
}

// NopBody returns a minimal valid module body: enough for warm-up demos and
// tests that only need code generation to succeed.
func NopBody() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
}
