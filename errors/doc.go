// Package errors provides structured error types for the jit-core library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category):
//
//	err := errors.Wrap(errors.PhaseBootstrap, errors.KindBridgeFailure,
//		cause, "notify bootstrap finished")
//
// All errors implement the standard error interface and support errors.Is/As.
//
// The package also owns the fatal "unreachable" primitive. Entry points that
// must never be dispatched panic with an *UnreachableError, which tests can
// recover and distinguish from ordinary error results:
//
//	defer func() {
//	    var ue *errors.UnreachableError
//	    if !errors.AsUnreachable(recover(), &ue) {
//	        t.Fatal("expected unreachable panic")
//	    }
//	}()
package errors
