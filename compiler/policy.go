package compiler

import "github.com/wippyai/jit-core/meta"

// ForceCompAtLevelSimple reports whether method must bypass this backend and
// be compiled at the simple tier instead.
//
// It answers false while the bootstrap flag is up (the backend must compile
// its own methods during self-hosting) and always in native-image mode,
// where the backend is ahead-of-time compiled and cannot recurse. Otherwise
// it is true iff the method's declaring module appears in the exclusion list
// published by the managed runtime object. Missing bridge handle or missing
// list fail open: compile normally.
//
// The decision is pure, but the bridge query crosses the managed boundary on
// every call; callers in tight loops should cache the answer themselves.
func (c *Compiler) ForceCompAtLevelSimple(method *meta.Method) bool {
	if c.bootstrapping.Load() {
		return false
	}
	if c.cfg.NativeImage {
		return false
	}
	if c.cfg.Bridge == nil || c.cfg.Registry == nil {
		return false
	}

	handle := c.cfg.Bridge.ProbeActiveRuntimeObject()
	if handle == nil {
		return false
	}
	excluded := c.cfg.Bridge.ExcludedModules(handle)
	if excluded == nil {
		return false
	}

	module := c.cfg.Registry.ModuleOf(method)
	for _, m := range excluded {
		if m == module {
			return true
		}
	}
	return false
}
