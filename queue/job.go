package queue

import (
	"context"

	"github.com/wippyai/jit-core/meta"
)

// Tier is the optimization level a job is compiled at.
type Tier int

const (
	// TierSimple is the low-optimization tier.
	TierSimple Tier = iota + 1
	// TierFullOptimization is the highest tier.
	TierFullOptimization
)

func (t Tier) String() string {
	switch t {
	case TierSimple:
		return "simple"
	case TierFullOptimization:
		return "full-optimization"
	default:
		return "unknown"
	}
}

func (t Tier) valid() bool {
	return t == TierSimple || t == TierFullOptimization
}

// Reason records why a job was submitted.
type Reason string

const (
	ReasonBootstrap      Reason = "bootstrap"
	ReasonCountTriggered Reason = "count-triggered"
	ReasonReplay         Reason = "replay"
)

// InvocationEntry is the entry offset denoting compilation of the whole
// method from its invocation entry point rather than a mid-method entry.
const InvocationEntry = -1

// Job is one compilation request.
type Job struct {
	Method      *meta.Method
	EntryOffset int
	Tier        Tier
	Reason      Reason

	// HotCount is the invocation-count hint attached to the job. It
	// influences scheduling priority only; any positive value is valid.
	HotCount int
}

// CompileFunc executes one job: generate code for the method and install it.
type CompileFunc func(ctx context.Context, job *Job) error
