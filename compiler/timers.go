package compiler

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Timers accumulates code-installation wall time. The compiler core only
// reads it; the mutating call sites live in the code installer, which
// receives the instance at wiring time.
type Timers struct {
	installNanos       atomic.Int64
	hostedInstallNanos atomic.Int64
}

// AddCodeInstall accounts an installation on the broker-driven path.
func (t *Timers) AddCodeInstall(d time.Duration) {
	t.installNanos.Add(d.Nanoseconds())
}

// AddHostedCodeInstall accounts an installation outside the broker path,
// e.g. standalone or precompiled code.
func (t *Timers) AddHostedCodeInstall(d time.Duration) {
	t.hostedInstallNanos.Add(d.Nanoseconds())
}

// CodeInstall returns the accumulated broker-path install time.
func (t *Timers) CodeInstall() time.Duration {
	return time.Duration(t.installNanos.Load())
}

// HostedCodeInstall returns the accumulated hosted install time.
func (t *Timers) HostedCodeInstall() time.Duration {
	return time.Duration(t.hostedInstallNanos.Load())
}

// PrintTimers writes the broker-path timer report: the queue's aggregate
// compile time alongside this backend's install timer.
func (c *Compiler) PrintTimers(w io.Writer) {
	var compile time.Duration
	if c.cfg.Broker != nil {
		compile = c.cfg.Broker.TotalCompileTime()
	}
	fmt.Fprintf(w, "    JIT CompileBroker Time:\n")
	fmt.Fprintf(w, "       Compile:        %7.3f s\n", compile.Seconds())
	fmt.Fprintf(w, "       Install Code:   %7.3f s\n", c.timers.CodeInstall().Seconds())
}

// PrintHostedTimers writes the hosted (non-broker) install timer report.
func (c *Compiler) PrintHostedTimers(w io.Writer) {
	fmt.Fprintf(w, "    JIT Hosted Time:\n")
	fmt.Fprintf(w, "       Install Code:   %7.3f s\n", c.timers.HostedCodeInstall().Seconds())
}
