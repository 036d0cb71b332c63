package compiler

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	jitcore "github.com/wippyai/jit-core"
	"github.com/wippyai/jit-core/errors"
	"github.com/wippyai/jit-core/meta"
	"github.com/wippyai/jit-core/queue"
)

// Broker is the compile queue the backend submits work to.
type Broker interface {
	Submit(method *meta.Method, entryOffset int, tier queue.Tier, reason queue.Reason, hotCount int) error
	QueueSize(tier queue.Tier) int

	// TotalCompileTime is the queue's own aggregate compile-time statistic,
	// folded into the timer report.
	TotalCompileTime() time.Duration
}

// Bridge reaches the managed-runtime object the backend is implemented in.
// Every call crosses the managed boundary and may be expensive.
type Bridge interface {
	// ProbeActiveRuntimeObject returns a handle to the live runtime object,
	// or nil while the managed side has not initialized yet.
	ProbeActiveRuntimeObject() any

	// ExcludedModules returns the modules whose methods this backend must
	// never compile, or nil when the managed side publishes no list.
	ExcludedModules(handle any) []*meta.Module

	// NotifyBootstrapFinished tells the managed side the warm-up is done.
	// A failure here is escalated by the caller.
	NotifyBootstrapFinished() error
}

// StartupPolicy is the engine-wide compilation gating subsystem.
type StartupPolicy interface {
	// CompletedStartup ends the defer-compilation-during-startup phase.
	CompletedStartup()
}

// Config holds everything a Compiler depends on. Broker, Bridge and
// Registry are required for Bootstrap; the rest defaults sensibly.
type Config struct {
	// CompilerEnabled mirrors the engine-wide use-compiler flag.
	CompilerEnabled bool
	// BackendEnabled is true when this backend is selected.
	BackendEnabled bool
	// InterpreterOnly means the engine runs pure-interpreter: there is no
	// compiler to warm up and Bootstrap returns immediately.
	InterpreterOnly bool
	// NativeImage means the backend runs as a precompiled native image, so
	// no recursive self-compilation risk exists.
	NativeImage bool

	// PollInterval bounds the bootstrap drain loop's responsiveness.
	// Default 100ms.
	PollInterval time.Duration

	// BootstrapHotCount is the invocation-count hint attached to bootstrap
	// jobs. Purely a scheduling heuristic; any positive value is correct.
	// Default 10.
	BootstrapHotCount int

	Broker   Broker
	Bridge   Bridge
	Registry meta.Registry
	Policy   StartupPolicy

	// Clock drives the drain loop's timed waits. Default SystemClock.
	Clock jitcore.Clock

	// CompileTheWorld is the engine's compile-everything testing mode,
	// suppressed for the duration of Bootstrap. Optional.
	CompileTheWorld *jitcore.Flag

	// DiagScope, when set, is acquired for the duration of Bootstrap and
	// released on every exit path.
	DiagScope func() (release func())

	// GlobalTicks is the process-wide compilation tick counter shared with
	// other backends. A private instance is created when nil.
	GlobalTicks *jitcore.Ticks

	// Timers is the install-time instrumentation mutated by the code
	// installer. A private instance is created when nil.
	Timers *Timers

	// Logger defaults to the package logger (nop unless SetLogger ran).
	Logger *zap.Logger
}

// Compiler is the backend's lifecycle core. One per process, owned by the
// engine's compiler registration.
type Compiler struct {
	cfg   Config
	log   *zap.Logger
	clock jitcore.Clock

	state            atomic.Int32
	bootstrapping    atomic.Bool
	bootstrapHandled atomic.Bool

	methodsCompiled atomic.Uint64
	globalTicks     *jitcore.Ticks
	timers          *Timers
}

// New creates a Compiler. It performs no I/O and starts no goroutines.
func New(cfg Config) *Compiler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	if cfg.BootstrapHotCount < 1 {
		cfg.BootstrapHotCount = 10
	}
	if cfg.Clock == nil {
		cfg.Clock = jitcore.SystemClock()
	}
	if cfg.GlobalTicks == nil {
		cfg.GlobalTicks = &jitcore.Ticks{}
	}
	if cfg.Timers == nil {
		cfg.Timers = &Timers{}
	}
	if cfg.Logger == nil {
		cfg.Logger = Logger()
	}

	return &Compiler{
		cfg:         cfg,
		log:         cfg.Logger,
		clock:       cfg.Clock,
		globalTicks: cfg.GlobalTicks,
		timers:      cfg.Timers,
	}
}

// Timers returns the install-time instrumentation shared with the code
// installer.
func (c *Compiler) Timers() *Timers {
	return c.timers
}

// Bootstrapping reports whether the warm-up sequence is in progress.
func (c *Compiler) Bootstrapping() bool {
	return c.bootstrapping.Load()
}

// BootstrapRequestHandled signals that the queue accepted the first
// bootstrap compile request. The queue owner wires this to the broker's
// accept hook; it disambiguates "nothing submitted yet" from "drained".
func (c *Compiler) BootstrapRequestHandled() {
	c.bootstrapHandled.Store(true)
}

// CompileMethod is the generic backend interface's synchronous compile entry
// point. Compilation for this backend is routed through the managed-runtime
// bridge instead, so any call is a routing defect and takes the process down.
func (c *Compiler) CompileMethod(ctx context.Context, method *meta.Method, entryOffset int) {
	errors.Unreachable("CompileMethod")
}
