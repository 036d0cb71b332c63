// Package jitcore provides the bootstrap and lifecycle core for a pluggable
// JIT compiler backend inside a managed-code execution engine.
//
// The backend this core coordinates is itself written in the managed language
// it compiles. Before it can be trusted with application code, its own hot
// methods must be pushed through the compile queue it will later serve. The
// core owns exactly that orchestration: the one-time initialization
// transition, the self-hosting bootstrap drain, the forced-compilation
// exclusion policy, and the counters and timers the engine uses to report
// compiler health.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	jit-core/        Root package with shared Clock, Flag and Ticks primitives
//	├── compiler/    Lifecycle controller, bootstrap coordinator, policy,
//	│                counters and timer reports
//	├── queue/       Tiered compile queue executing jobs on worker goroutines
//	├── codegen/     wazero-backed code generator and installer
//	├── meta/        Method and module metadata, baseline method registry
//	└── errors/      Structured error types for debugging
//
// # Quick Start
//
// Wire a compiler against a queue and run the warm-up:
//
//	c := compiler.New(compiler.Config{
//	    CompilerEnabled: true,
//	    BackendEnabled:  true,
//	    Broker:          broker,
//	    Bridge:          bridge,
//	    Registry:        registry,
//	})
//
//	c.Initialize()
//	if err := c.Bootstrap(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// The queue, code generator, module registry and runtime bridge are
// collaborators: the core consumes their interfaces and never reaches into
// their scheduling or code generation. Reference implementations live in
// queue/, codegen/ and meta/ so the core is runnable end to end.
package jitcore
