// Package meta describes the managed methods and modules the compiler core
// operates on.
//
// The real engine owns its own metadata; this package defines the minimal
// shape the core consumes (a Registry yielding the universal base object's
// instance methods, and module resolution for the exclusion policy) plus a
// slice-backed StaticRegistry used by tests and the jitboot command.
//
// Module identity is pointer identity: the exclusion policy compares
// *Module values directly, never names.
package meta
