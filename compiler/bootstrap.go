package compiler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/jit-core/errors"
	"github.com/wippyai/jit-core/queue"
)

// progressStride is how many compiled methods one progress marker covers.
const progressStride = 100

// Bootstrap runs the self-hosting warm-up: it submits the universal base
// object's eligible instance methods to the queue at the highest tier, then
// blocks until the queue drains, and finally notifies the managed side.
//
// It is invoked once from the initializing goroutine. A failure from the
// bridge's finish notification propagates to the caller; there is no other
// error source besides ctx cancellation of the drain wait.
func (c *Compiler) Bootstrap(ctx context.Context) error {
	if c.cfg.InterpreterOnly {
		// Pure-interpreter mode: no compiler exists to warm up.
		return nil
	}
	if c.cfg.Broker == nil || c.cfg.Registry == nil || c.cfg.Bridge == nil {
		return errors.NotInitialized(errors.PhaseBootstrap, "compile queue, registry or bridge")
	}

	// Compile-the-world would swallow or reorder the warm-up requests, and
	// would let another backend compile this one's methods. Off until done.
	defer c.cfg.CompileTheWorld.Suppress()()

	// The deferred store covers early returns and cancellation; the success
	// path clears the flag itself before notifying the managed side.
	c.bootstrapping.Store(true)
	defer c.bootstrapping.Store(false)

	if c.cfg.DiagScope != nil {
		release := c.cfg.DiagScope()
		defer release()
	}

	c.log.Info("bootstrapping JIT backend")
	start := time.Now()

	submitted := 0
	for _, m := range c.cfg.Registry.BaseObjectMethods() {
		if !m.Eligible() {
			continue
		}
		err := c.cfg.Broker.Submit(m, queue.InvocationEntry,
			queue.TierFullOptimization, queue.ReasonBootstrap, c.cfg.BootstrapHotCount)
		if err != nil {
			return err
		}
		submitted++
	}

	// Until the queue is seen non-empty (or the accept signal fired), an
	// empty queue means "not started yet", not "drained". With nothing
	// submitted there is nothing to wait for and the first round may exit
	// immediately.
	firstRound := submitted > 0
	base := c.MethodsCompiled()
	markers := 0

	for {
		var qsize int
		for {
			if err := c.clock.Wait(ctx, c.cfg.PollInterval); err != nil {
				return errors.Canceled(errors.PhaseBootstrap, err)
			}
			qsize = c.cfg.Broker.QueueSize(queue.TierFullOptimization)
			if !firstRound || qsize != 0 || c.bootstrapHandled.Load() {
				break
			}
		}
		firstRound = false

		for uint64(markers) < (c.MethodsCompiled()-base)/progressStride {
			markers++
			c.log.Debug("bootstrap progress",
				zap.Uint64("methods_compiled", c.MethodsCompiled()),
				zap.Int("queue_size", qsize))
		}

		if qsize == 0 {
			break
		}
	}

	// Warm-up is over: the exclusion policy must be back in force before
	// the finish notification crosses the managed boundary, where it can
	// trigger policy checks of its own.
	c.bootstrapping.Store(false)

	c.log.Info("bootstrap finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Uint64("methods_compiled", c.MethodsCompiled()))

	if err := c.cfg.Bridge.NotifyBootstrapFinished(); err != nil {
		return errors.Wrap(errors.PhaseBootstrap, errors.KindBridgeFailure,
			err, "notify bootstrap finished")
	}
	return nil
}
