package compiler

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	jitcore "github.com/wippyai/jit-core"
	"github.com/wippyai/jit-core/errors"
	"github.com/wippyai/jit-core/meta"
	"github.com/wippyai/jit-core/queue"
)

func TestBootstrap_InterpreterOnly(t *testing.T) {
	broker := &fakeBroker{}
	cfg := testConfig(broker, &fakeBridge{}, meta.NewStaticRegistry())
	cfg.InterpreterOnly = true
	c := New(cfg)

	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if len(broker.submissions()) != 0 {
		t.Fatal("interpreter-only bootstrap submitted jobs")
	}
}

func TestBootstrap_SubmitsEligibleMethodsOnly(t *testing.T) {
	_, methods := baselineMethods()
	reg := meta.NewStaticRegistry(methods...)

	// Queue accepts, then reports pending once, then drained.
	broker := &fakeBroker{sizes: []int{3, 0}}
	bridge := &fakeBridge{}
	cfg := testConfig(broker, bridge, reg)
	cfg.BootstrapHotCount = 10
	c := New(cfg)

	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	subs := broker.submissions()
	if len(subs) != 3 {
		t.Fatalf("submitted %d jobs, want 3 (eligible methods only)", len(subs))
	}
	for _, s := range subs {
		if s.tier != queue.TierFullOptimization {
			t.Fatalf("job at tier %v, want full optimization", s.tier)
		}
		if s.reason != queue.ReasonBootstrap {
			t.Fatalf("job reason %q, want bootstrap", s.reason)
		}
		if s.offset != queue.InvocationEntry {
			t.Fatalf("job entry offset %d, want invocation entry", s.offset)
		}
		if s.hotCount != 10 {
			t.Fatalf("job hot count %d, want 10", s.hotCount)
		}
	}
	if bridge.notified.Load() != 1 {
		t.Fatal("bridge finish notification did not fire exactly once")
	}
}

func TestBootstrap_ZeroMethodsTerminates(t *testing.T) {
	broker := &fakeBroker{} // queue permanently empty, handled flag never set
	bridge := &fakeBridge{}
	c := New(testConfig(broker, bridge, meta.NewStaticRegistry()))

	done := make(chan error, 1)
	go func() { done <- c.Bootstrap(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Bootstrap: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Bootstrap blocked with zero baseline methods")
	}
	if bridge.notified.Load() != 1 {
		t.Fatal("finish notification missing")
	}
}

func TestBootstrap_FirstRoundWaitsForAcceptSignal(t *testing.T) {
	_, methods := baselineMethods()
	reg := meta.NewStaticRegistry(methods[0])

	// The queue keeps answering 0: the job was submitted but not yet
	// accepted. The loop must keep polling until the handled signal fires.
	broker := &fakeBroker{sizes: []int{0}}
	clock := &fastClock{}

	var c *Compiler
	cfg := testConfig(broker, &fakeBridge{}, reg)
	cfg.Clock = clock
	c = New(cfg)

	done := make(chan error, 1)
	go func() { done <- c.Bootstrap(context.Background()) }()

	// Let it spin a few rounds to show it does not exit on qsize==0 alone.
	for clock.waits.Load() < 10 {
		time.Sleep(time.Millisecond)
	}
	select {
	case <-done:
		t.Fatal("Bootstrap exited before the accept signal")
	default:
	}

	c.BootstrapRequestHandled()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Bootstrap: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Bootstrap did not exit after accept signal with empty queue")
	}
}

func TestBootstrap_DrainsBeforeReturning(t *testing.T) {
	_, methods := baselineMethods()
	reg := meta.NewStaticRegistry(methods[0], methods[1], methods[2])

	// Simulated drain: 3 pending, then 2, 1, and finally empty.
	broker := &fakeBroker{sizes: []int{3, 2, 1, 0}}
	bridge := &fakeBridge{}
	c := New(testConfig(broker, bridge, reg))

	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if c.Bootstrapping() {
		t.Fatal("bootstrap flag still up after return")
	}
	if bridge.notified.Load() != 1 {
		t.Fatal("finish notification missing")
	}
}

func TestBootstrap_FlagUpWhileDraining(t *testing.T) {
	_, methods := baselineMethods()
	mod := methods[0].Module
	reg := meta.NewStaticRegistry(methods[0])

	observed := make(chan bool, 1)
	broker := &fakeBroker{sizes: []int{1, 0}}
	bridge := &fakeBridge{handle: struct{}{}, excluded: []*meta.Module{mod}}

	var c *Compiler
	broker.onSubmit = func(*fakeBroker) {
		// A policy check racing the warm-up must see the flag and decline
		// to force, even though the module is on the exclusion list.
		observed <- c.ForceCompAtLevelSimple(methods[0])
	}
	c = New(testConfig(broker, bridge, reg))

	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if forced := <-observed; forced {
		t.Fatal("policy forced a method away from the backend during bootstrap")
	}

	// After bootstrap the same check honors the exclusion list again.
	if !c.ForceCompAtLevelSimple(methods[0]) {
		t.Fatal("policy ignored exclusion list after bootstrap")
	}
}

// notifyObservingBridge records what the policy answers while the finish
// notification is running on the managed side.
type notifyObservingBridge struct {
	fakeBridge
	c           *Compiler
	method      *meta.Method
	flagUp      bool
	forcedAway  bool
	checkedOnce bool
}

func (br *notifyObservingBridge) NotifyBootstrapFinished() error {
	br.flagUp = br.c.Bootstrapping()
	br.forcedAway = br.c.ForceCompAtLevelSimple(br.method)
	br.checkedOnce = true
	return br.fakeBridge.NotifyBootstrapFinished()
}

func TestBootstrap_FlagDownBeforeFinishNotification(t *testing.T) {
	_, methods := baselineMethods()
	mod := methods[0].Module
	reg := meta.NewStaticRegistry(methods[0])

	broker := &fakeBroker{sizes: []int{1, 0}}
	bridge := &notifyObservingBridge{
		fakeBridge: fakeBridge{handle: struct{}{}, excluded: []*meta.Module{mod}},
		method:     methods[0],
	}
	c := New(testConfig(broker, bridge, reg))
	bridge.c = c

	if err := c.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	if !bridge.checkedOnce {
		t.Fatal("finish notification never ran")
	}
	// The warm-up is over once the queue drained: the managed side must see
	// the flag down and the exclusion list back in force during the
	// notification, not only after Bootstrap returns.
	if bridge.flagUp {
		t.Fatal("bootstrap flag still up during finish notification")
	}
	if !bridge.forcedAway {
		t.Fatal("exclusion list ignored during finish notification")
	}
}

func TestBootstrap_PropagatesBridgeFailure(t *testing.T) {
	_, methods := baselineMethods()
	reg := meta.NewStaticRegistry(methods[0])

	broker := &fakeBroker{sizes: []int{1, 0}}
	bridge := &fakeBridge{notifyErr: stderrors.New("managed side rejected")}
	c := New(testConfig(broker, bridge, reg))

	err := c.Bootstrap(context.Background())
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseBootstrap, Kind: errors.KindBridgeFailure}) {
		t.Fatalf("expected bridge_failure, got %v", err)
	}
	if c.Bootstrapping() {
		t.Fatal("bootstrap flag leaked on bridge failure")
	}
}

func TestBootstrap_ScopedStateRestoredOnAllPaths(t *testing.T) {
	_, methods := baselineMethods()
	reg := meta.NewStaticRegistry(methods[0])

	ctw := jitcore.NewFlag(true)
	var acquired, released int
	diag := func() func() {
		acquired++
		return func() { released++ }
	}

	t.Run("success path", func(t *testing.T) {
		broker := &fakeBroker{sizes: []int{1, 0}}
		var sawCTW bool
		broker.onSubmit = func(*fakeBroker) { sawCTW = ctw.Enabled() }

		cfg := testConfig(broker, &fakeBridge{}, reg)
		cfg.CompileTheWorld = ctw
		cfg.DiagScope = diag
		c := New(cfg)

		if err := c.Bootstrap(context.Background()); err != nil {
			t.Fatalf("Bootstrap: %v", err)
		}
		if sawCTW {
			t.Fatal("compile-the-world not suppressed during bootstrap")
		}
		if !ctw.Enabled() {
			t.Fatal("compile-the-world not restored after bootstrap")
		}
		if acquired != 1 || released != 1 {
			t.Fatalf("diag scope acquired=%d released=%d", acquired, released)
		}
	})

	t.Run("failure path", func(t *testing.T) {
		broker := &fakeBroker{submitErr: errors.QueueClosed("queue: submit after close")}
		cfg := testConfig(broker, &fakeBridge{}, reg)
		cfg.CompileTheWorld = ctw
		cfg.DiagScope = diag
		c := New(cfg)

		if err := c.Bootstrap(context.Background()); err == nil {
			t.Fatal("expected submit error to propagate")
		}
		if !ctw.Enabled() {
			t.Fatal("compile-the-world not restored on early return")
		}
		if c.Bootstrapping() {
			t.Fatal("bootstrap flag leaked on early return")
		}
		if acquired != 2 || released != 2 {
			t.Fatalf("diag scope acquired=%d released=%d", acquired, released)
		}
	})
}

func TestBootstrap_ContextCancel(t *testing.T) {
	_, methods := baselineMethods()
	reg := meta.NewStaticRegistry(methods[0])

	// Queue never drains; the injected ctx is the only way out.
	broker := &fakeBroker{sizes: []int{1}}
	cfg := testConfig(broker, &fakeBridge{}, reg)
	c := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Bootstrap(ctx)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseBootstrap, Kind: errors.KindCanceled}) {
		t.Fatalf("expected canceled error, got %v", err)
	}
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("cause not preserved: %v", err)
	}
	if c.Bootstrapping() {
		t.Fatal("bootstrap flag leaked on cancel")
	}
}

func TestBootstrap_MissingCollaborators(t *testing.T) {
	c := New(Config{CompilerEnabled: true, BackendEnabled: true, Clock: &fastClock{}})

	err := c.Bootstrap(context.Background())
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseBootstrap, Kind: errors.KindNotInitialized}) {
		t.Fatalf("expected not_initialized, got %v", err)
	}
}
