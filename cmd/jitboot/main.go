// Command jitboot wires the compiler core against the reference queue and
// wazero backend, runs the self-hosting bootstrap over a synthetic baseline
// method set and prints the timer reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/jit-core/codegen"
	"github.com/wippyai/jit-core/compiler"
	"github.com/wippyai/jit-core/meta"
	"github.com/wippyai/jit-core/queue"
)

func main() {
	var (
		methods     = flag.Int("methods", 32, "Synthetic baseline method count")
		workers     = flag.Int("workers", 4, "Compile worker goroutines")
		poll        = flag.Duration("poll", 100*time.Millisecond, "Bootstrap poll interval")
		hotCount    = flag.Int("hot", 10, "Hot-count hint for bootstrap jobs")
		cacheDir    = flag.String("cache", "", "wazero compilation cache directory")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if err := run(*methods, *workers, *poll, *hotCount, *cacheDir, *verbose, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// counterFunc adapts a closure to the codegen.Counters interface so the
// backend can report into a compiler that is constructed after it.
type counterFunc func()

func (f counterFunc) IncMethodsCompiled() { f() }

// localBridge stands in for the managed-runtime object in this demo.
type localBridge struct {
	log      *zap.Logger
	excluded []*meta.Module
}

func (b *localBridge) ProbeActiveRuntimeObject() any      { return b }
func (b *localBridge) ExcludedModules(any) []*meta.Module { return b.excluded }

func (b *localBridge) NotifyBootstrapFinished() error {
	b.log.Info("managed side acknowledged bootstrap")
	return nil
}

type logPolicy struct {
	log *zap.Logger
}

func (p *logPolicy) CompletedStartup() {
	p.log.Info("startup compilation gating lifted")
}

func run(methods, workers int, poll time.Duration, hotCount int, cacheDir string, verbose, interactive bool) error {
	ctx := context.Background()

	logger := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = dev
		defer logger.Sync()
	}
	compiler.SetLogger(logger)

	reg := syntheticRegistry(methods)
	timers := &compiler.Timers{}

	var c *compiler.Compiler

	backend, err := codegen.New(ctx, codegen.Config{
		CacheDir: cacheDir,
		Timers:   timers,
		Counters: counterFunc(func() { c.IncMethodsCompiled() }),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer backend.Close(ctx)

	broker, err := queue.New(queue.Config{
		Workers: workers,
		Compile: backend.CompileFunc(),
		OnAccept: func(job *queue.Job) {
			if job.Reason == queue.ReasonBootstrap {
				c.BootstrapRequestHandled()
			}
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer broker.Close()

	bridge := &localBridge{
		log:      logger,
		excluded: []*meta.Module{{Name: "jit.backend.internal"}},
	}

	c = compiler.New(compiler.Config{
		CompilerEnabled:   true,
		BackendEnabled:    true,
		PollInterval:      poll,
		BootstrapHotCount: hotCount,
		Broker:            broker,
		Bridge:            bridge,
		Registry:          reg,
		Policy:            &logPolicy{log: logger},
		Timers:            timers,
		Logger:            logger,
	})

	c.Initialize()

	eligible := 0
	for _, m := range reg.BaseObjectMethods() {
		if m.Eligible() {
			eligible++
		}
	}

	if interactive && term.IsTerminal(int(os.Stdout.Fd())) {
		if err := runInteractive(c, broker, eligible); err != nil {
			return err
		}
	} else {
		start := time.Now()
		if err := c.Bootstrap(ctx); err != nil {
			return err
		}
		fmt.Printf("Bootstrapped %d methods in %s\n", c.MethodsCompiled(), time.Since(start).Round(time.Millisecond))
	}

	// Exercise the hosted path once so both reports carry data.
	if err := backend.InstallHosted(ctx, "jit.backend.preimage", codegen.NopBody()); err != nil {
		return err
	}

	c.PrintTimers(os.Stdout)
	c.PrintHostedTimers(os.Stdout)
	return nil
}

// syntheticRegistry builds a baseline set shaped like a real universal base
// object: mostly eligible instance methods plus the native/static/initializer
// entries the bootstrap must skip.
func syntheticRegistry(n int) *meta.StaticRegistry {
	mod := &meta.Module{Name: "jit.backend"}
	methods := []*meta.Method{
		{Name: "<init>", Module: mod, Initializer: true},
		{Name: "registerNatives", Module: mod, Static: true},
		{Name: "clone", Module: mod, Native: true},
	}
	for i := 0; i < n; i++ {
		methods = append(methods, &meta.Method{
			Name:   fmt.Sprintf("method%03d", i),
			Module: mod,
			Body:   codegen.NopBody(),
		})
	}
	return meta.NewStaticRegistry(methods...)
}
