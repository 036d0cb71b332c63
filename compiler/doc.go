// Package compiler implements the lifecycle core of the self-hosting JIT
// backend.
//
// A Compiler is an explicitly constructed context object, not a hidden
// singleton: the owning engine creates exactly one per process at compiler
// registration time and passes it everywhere. It owns four concerns:
//
//	Lifecycle    Initialize() performs the one-way Uninitialized to
//	             Initialized transition and lifts the engine's
//	             defer-compilation-during-startup gate.
//	Bootstrap    Bootstrap() warms up the backend's own hot methods through
//	             the compile queue and blocks until the queue drains.
//	Policy       ForceCompAtLevelSimple() decides whether a method must
//	             bypass this backend because its module is excluded.
//	Reporting    Counters, install timers and their printable summaries.
//
// # Bootstrap
//
// The backend is written in the managed language it compiles, so before it
// serves application code its own hot methods are submitted to the queue at
// the highest tier and the coordinator polls until the queue drains:
//
//	c.Initialize()
//	if err := c.Bootstrap(ctx); err != nil {
//	    // bridge failure on the finish notification; fatal at engine level
//	}
//
// While the bootstrap flag is up, ForceCompAtLevelSimple answers false for
// every method: the backend must be allowed to compile itself.
//
// # Unreachable entry point
//
// CompileMethod is part of the generic backend interface but is never the
// dispatch route for this backend; any call panics with an
// *errors.UnreachableError.
package compiler
