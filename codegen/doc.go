// Package codegen provides the reference code generator and installer
// behind the compile queue.
//
// It wraps wazero the way the engine's real backend would wrap its native
// code generator: each job's method body is compiled to executable code and
// installed into an in-memory code table. The package owns the mutating call
// sites of the compiler core's install timers — the broker-driven path
// accounts into the CodeInstall timer, InstallHosted into the hosted timer —
// and reports each finished method to the backend's counters.
//
// The compiler core never imports this package; it sees only the
// queue.CompileFunc produced by Backend.CompileFunc.
package codegen
