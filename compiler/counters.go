package compiler

// IncMethodsCompiled attributes one finished compilation to this backend,
// bumping both the backend's methods-compiled counter and the process-wide
// compilation ticks. Safe under concurrent calls from compile workers.
func (c *Compiler) IncMethodsCompiled() {
	c.methodsCompiled.Add(1)
	c.globalTicks.Inc()
}

// IncGlobalCompilationTicks bumps only the shared tick counter. Used when
// another backend's tick should count toward the global total without being
// attributed to this backend.
func (c *Compiler) IncGlobalCompilationTicks() {
	c.globalTicks.Inc()
}

// MethodsCompiled returns how many methods this backend has compiled.
func (c *Compiler) MethodsCompiled() uint64 {
	return c.methodsCompiled.Load()
}

// GlobalCompilationTicks returns the process-wide tick count shared across
// backends.
func (c *Compiler) GlobalCompilationTicks() uint64 {
	return c.globalTicks.Load()
}
