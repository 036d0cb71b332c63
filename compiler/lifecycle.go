package compiler

// State is the compiler's lifecycle state. The only transition is
// Uninitialized to Initialized, and it happens at most once.
type State int32

const (
	StateUninitialized State = iota
	StateInitialized
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// Initialize transitions the compiler to Initialized exactly once.
//
// It is a no-op when the compiler is globally disabled, when this backend is
// not selected, or when the transition already happened. Safe to call from
// multiple goroutines; only the first qualifying call has effect.
func (c *Compiler) Initialize() {
	if !c.cfg.CompilerEnabled || !c.cfg.BackendEnabled {
		return
	}
	if !c.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitialized)) {
		return
	}

	// The backend's own code is ordinary application code, not engine
	// internals: with the backend ready, startup compilation deferral ends.
	if c.cfg.Policy != nil {
		c.cfg.Policy.CompletedStartup()
	}

	c.log.Info("JIT backend initialized")
}

// State returns the current lifecycle state.
func (c *Compiler) State() State {
	return State(c.state.Load())
}
